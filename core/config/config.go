package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"sgsync/core/cluster"
	"sgsync/core/database"
	"sgsync/core/logger"
	"sgsync/core/redisclient"
	"sgsync/core/server"
	"sgsync/core/storage"
	"sgsync/feature/firewall"
	"sgsync/feature/membership"
	"sgsync/feature/security"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the admin HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the SQL connection.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Redis holds configuration for the Redis connection.
	Redis redisclient.Config `mapstructure:"redis"`
	// Cluster describes the local node.
	Cluster cluster.Config `mapstructure:"cluster"`
	// Firewall selects the ACL provider.
	Firewall firewall.Config `mapstructure:"firewall"`
	// Membership selects the registry backend.
	Membership membership.Config `mapstructure:"membership"`
	// Security tunes the reconciliation schedule.
	Security security.Config `mapstructure:"security"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. CLUSTER_REGION -> cluster.region)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// NeedsDatabase reports whether any configured backend uses the SQL connection.
func (c *Config) NeedsDatabase() bool {
	return c.Firewall.Backend == firewall.BackendDatabase || c.Firewall.Backend == "" ||
		c.Membership.Backend == membership.BackendDatabase || c.Membership.Backend == ""
}

// NeedsRedis reports whether the membership registry lives in Redis.
func (c *Config) NeedsRedis() bool {
	return c.Membership.Backend == membership.BackendRedis
}

// NeedsStorage reports whether the membership registry lives in object storage.
func (c *Config) NeedsStorage() bool {
	return c.Membership.Backend == membership.BackendObject
}

// Validate checks the settings the reconciler cannot run without.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Cluster.Identity().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("cluster: %w", err))
	}
	ports := firewall.PortRange{From: c.Cluster.StoragePort, To: c.Cluster.SSLStoragePort}
	if err := ports.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("cluster: %w", err))
	}

	switch c.Firewall.Backend {
	case firewall.BackendDatabase, firewall.BackendMemory, "":
	default:
		errs = append(errs, fmt.Errorf("firewall: unknown backend %q", c.Firewall.Backend))
	}
	switch c.Membership.Backend {
	case membership.BackendDatabase, membership.BackendRedis, membership.BackendObject, "":
	default:
		errs = append(errs, fmt.Errorf("membership: unknown backend %q", c.Membership.Backend))
	}

	// A redis member key must outlive the gap between two heartbeats.
	if c.Membership.Backend == membership.BackendRedis {
		ttl, beat := c.Membership.MemberTTL(), c.Membership.HeartbeatInterval()
		if ttl <= beat {
			errs = append(errs, fmt.Errorf("membership: ttl %s must exceed heartbeat interval %s", ttl, beat))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
