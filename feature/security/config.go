package security

import "time"

// Config tunes the reconciliation schedule.
type Config struct {
	// BaseIntervalSeconds is the base period of seed nodes; jitter adds up to the same again.
	BaseIntervalSeconds int `mapstructure:"base_interval_seconds" default:"120"`
}

// BaseInterval returns the base period, defaulting to DefaultBaseInterval.
func (c Config) BaseInterval() time.Duration {
	if c.BaseIntervalSeconds <= 0 {
		return DefaultBaseInterval
	}
	return time.Duration(c.BaseIntervalSeconds) * time.Second
}
