package config

import (
	"os"
	"strconv"
	"time"
)

// RuntimeConfig holds runtime tuning values that are not part of the user's
// config file. Each can be overridden with an environment variable.
type RuntimeConfig struct {
	// HTTP client configuration
	HTTP HTTPConfig

	// Log file rotation configuration
	Log LogConfig
}

// HTTPConfig holds HTTP client configuration.
type HTTPConfig struct {
	// Timeout is the per-request timeout for calls to Toggl.
	// Default: 30s
	Timeout time.Duration

	// UserAgent is sent with every request.
	// Default: togglcmder
	UserAgent string
}

// LogConfig holds log file rotation configuration.
type LogConfig struct {
	// MaxSizeMB is the size at which the log file is rotated.
	// Default: 5
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	// Default: 3
	MaxBackups int
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "togglcmder",
		},
		Log: LogConfig{
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// LoadRuntimeConfig returns the defaults with environment overrides applied.
func LoadRuntimeConfig() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	return cfg
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv(EnvPrefix + "_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.HTTP.Timeout = d
		}
	}
	if v := os.Getenv(EnvPrefix + "_USER_AGENT"); v != "" {
		c.HTTP.UserAgent = v
	}
	if v := os.Getenv(EnvPrefix + "_LOG_MAX_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Log.MaxSizeMB = n
		}
	}
	if v := os.Getenv(EnvPrefix + "_LOG_MAX_BACKUPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Log.MaxBackups = n
		}
	}
}

// Reset resets the configuration to defaults.
// This is primarily useful for testing.
func (c *RuntimeConfig) Reset() {
	*c = *DefaultRuntimeConfig()
}
