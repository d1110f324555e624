// Package database opens the SQL connection shared by the gorm-backed
// membership registry and firewall rule store.
//
// Supported drivers are mysql (default), postgres and sqlite. The connection
// is verified with a ping bounded by TimeoutSeconds before it is returned.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
package database
