// Package config loads togglcmder's user configuration.
//
// The config file is YAML, read through viper from the XDG config directory
// unless a path is given. Every key can be overridden by an environment
// variable named TOGGLCMDER_<KEY>.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "TOGGLCMDER"

// Config keys.
const (
	KeyAPIToken         = "api_token"
	KeyAPIURL           = "api_url"
	KeyDefaultWorkspace = "default_workspace"
	KeyDefaultProject   = "default_project"
	KeyWindowStartDays  = "default_time_entry_window_start_days"
	KeyWindowStopDays   = "default_time_entry_window_stop_days"
	KeyCachePath        = "cache_path"
	KeyStatePath        = "state_path"
	KeyLogFile          = "log_file"
)

// DefaultAPIURL is the base URL of the Toggl v8 API.
const DefaultAPIURL = "https://api.track.toggl.com/api/v8"

// Config is the user configuration.
type Config struct {
	APIToken         string `mapstructure:"api_token" json:"-"`
	APIURL           string `mapstructure:"api_url" json:"api_url"`
	DefaultWorkspace string `mapstructure:"default_workspace" json:"default_workspace"`
	DefaultProject   string `mapstructure:"default_project" json:"default_project"`
	// WindowStartDays is how many days back time entries are loaded from.
	WindowStartDays int `mapstructure:"default_time_entry_window_start_days" json:"default_time_entry_window_start_days"`
	// WindowStopDays is how many days back the loading window ends.
	WindowStopDays int    `mapstructure:"default_time_entry_window_stop_days" json:"default_time_entry_window_stop_days"`
	CachePath      string `mapstructure:"cache_path" json:"cache_path"`
	StatePath      string `mapstructure:"state_path" json:"state_path"`
	LogFile        string `mapstructure:"log_file" json:"log_file"`

	// Runtime holds values that only come from the environment.
	Runtime *RuntimeConfig `mapstructure:"-" json:"-"`

	v    *viper.Viper
	path string
}

// DefaultPath returns the default config file path following the XDG spec.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "togglcmder", "config.yaml")
}

// Load reads the config file at path, or the default path when empty.
// A missing file is not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAPIToken, "")
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyDefaultWorkspace, "")
	v.SetDefault(KeyDefaultProject, "")
	v.SetDefault(KeyWindowStartDays, 7)
	v.SetDefault(KeyWindowStopDays, 0)
	v.SetDefault(KeyCachePath, "")
	v.SetDefault(KeyStatePath, "")
	v.SetDefault(KeyLogFile, "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{v: v, path: path}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.Runtime = LoadRuntimeConfig()
	return cfg, nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Set records a value and updates the matching field.
func (c *Config) Set(key string, value any) error {
	if c.v == nil {
		return fmt.Errorf("config not loaded")
	}
	c.v.Set(key, value)
	return c.v.Unmarshal(c)
}

// Save writes the current settings to the config file, creating it and its
// directory when needed.
func (c *Config) Save() error {
	if c.v == nil {
		return fmt.Errorf("config not loaded")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := c.v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("write config %s: %w", c.path, err)
	}
	return os.Chmod(c.path, 0o600)
}

// SaveToken stores a rotated API token in the config file.
func (c *Config) SaveToken(token string) error {
	if err := c.Set(KeyAPIToken, token); err != nil {
		return err
	}
	return c.Save()
}

// Settings returns every effective setting, for display.
func (c *Config) Settings() map[string]any {
	if c.v == nil {
		return map[string]any{}
	}
	return c.v.AllSettings()
}
