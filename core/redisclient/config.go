package redisclient

// Config holds configuration for the Redis connection.
type Config struct {
	// URL is the redis:// connection URL.
	URL string `mapstructure:"url" default:"redis://localhost:6379/0"`
	// TimeoutSeconds bounds the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
}
