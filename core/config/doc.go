// Package config provides configuration management for sgsync.
//
// It loads a .env file when present, then environment variables through
// Viper. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
//   - Server: admin HTTP server (enabled, port, API key)
//   - Log: logging level and format
//   - Database: SQL connection (mysql, postgres, sqlite)
//   - Storage: S3/MinIO credentials and bucket
//   - Redis: connection URL
//   - Cluster: local identity (app, region, addresses, seed, storage ports)
//   - Firewall: ACL provider backend
//   - Membership: registry backend and heartbeat
//   - Security: reconciliation base interval
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Cluster.Region)
package config
