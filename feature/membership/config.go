package membership

import (
	"context"
	"fmt"
	"time"

	"sgsync/core/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Registry backend names accepted by Config.Backend.
const (
	// BackendDatabase keeps members in the cluster_members table.
	BackendDatabase = "database"
	// BackendRedis keeps one expiring key per member.
	BackendRedis = "redis"
	// BackendObject keeps one JSON object per member in a bucket.
	BackendObject = "object"
)

// Config selects and tunes the registry backend.
type Config struct {
	// Backend is the registry implementation (database, redis, object).
	Backend string `mapstructure:"backend" default:"database"`
	// HeartbeatSeconds is the interval at which the local member is re-registered.
	HeartbeatSeconds int `mapstructure:"heartbeat_seconds" default:"30"`
	// TTLSeconds is the expiry of redis member keys.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"90"`
	// KeyPrefix prefixes redis member keys.
	KeyPrefix string `mapstructure:"key_prefix" default:"sgsync:member:"`
	// ObjectPrefix prefixes member objects in the storage bucket.
	ObjectPrefix string `mapstructure:"object_prefix" default:"members"`
	// AutoMigrate creates the cluster_members table on start.
	AutoMigrate bool `mapstructure:"auto_migrate" default:"true"`
}

// HeartbeatInterval returns the heartbeat period, defaulting to 30s.
func (c Config) HeartbeatInterval() time.Duration {
	if c.HeartbeatSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HeartbeatSeconds) * time.Second
}

// MemberTTL returns the expiry of redis member keys, defaulting to DefaultMemberTTL.
func (c Config) MemberTTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return DefaultMemberTTL
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// Backends carries the connections a registry backend may need.
type Backends struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Storage storage.Client
	Bucket  string
}

// New builds the configured store.
func New(ctx context.Context, cfg Config, b Backends) (Store, error) {
	switch cfg.Backend {
	case BackendDatabase, "":
		if b.DB == nil {
			return nil, fmt.Errorf("membership backend %s requires a database connection", BackendDatabase)
		}
		r := NewDatabaseRegistry(b.DB)
		if cfg.AutoMigrate {
			if err := r.Migrate(ctx); err != nil {
				return nil, err
			}
		}
		return r, nil
	case BackendRedis:
		if b.Redis == nil {
			return nil, fmt.Errorf("membership backend %s requires a redis connection", BackendRedis)
		}
		return NewRedisRegistry(b.Redis, cfg.KeyPrefix, cfg.MemberTTL()), nil
	case BackendObject:
		if b.Storage == nil {
			return nil, fmt.Errorf("membership backend %s requires a storage client", BackendObject)
		}
		if err := storage.EnsureBucket(ctx, b.Storage, b.Bucket, ""); err != nil {
			return nil, err
		}
		return NewObjectRegistry(b.Storage, b.Bucket, cfg.ObjectPrefix), nil
	default:
		return nil, fmt.Errorf("unknown membership backend: %s", cfg.Backend)
	}
}
