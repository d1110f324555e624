package firewall

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Provider backend names accepted by Config.Backend.
const (
	// BackendMemory keeps ranges in process memory.
	BackendMemory = "memory"
	// BackendDatabase keeps ranges in the acl_rules table.
	BackendDatabase = "database"
)

// Config selects the ACL provider implementation.
type Config struct {
	// Backend is the provider implementation (memory, database).
	Backend string `mapstructure:"backend" default:"database"`
	// AutoMigrate creates the acl_rules table on start.
	AutoMigrate bool `mapstructure:"auto_migrate" default:"true"`
}

// New builds the configured provider. db is only required by the database backend.
func New(ctx context.Context, cfg Config, db *gorm.DB) (Provider, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryProvider(PortRange{}), nil
	case BackendDatabase, "":
		if db == nil {
			return nil, fmt.Errorf("firewall backend %s requires a database connection", BackendDatabase)
		}
		p := NewDatabaseProvider(db)
		if cfg.AutoMigrate {
			if err := p.Migrate(ctx); err != nil {
				return nil, err
			}
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown firewall backend: %s", cfg.Backend)
	}
}
