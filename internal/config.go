package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Store     StoreConfig       `yaml:"store"`
	Dashboard DashboardConfig   `yaml:"dashboard"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Dashboard.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig says where notes are persisted.
//
// With the "file" backend the snapshot lives at CacheDir/File. With "sqlite"
// the database lives at CacheDir/File as well, so File should carry a
// matching extension.
type StoreConfig struct {
	CacheDir string `yaml:"cache_dir"`
	File     string `yaml:"file"`
	Backend  string `yaml:"backend"`
	Watch    bool   `yaml:"watch"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.CacheDir, validation.Required),
		validation.Field(&c.File, validation.Required),
		validation.Field(&c.Backend, validation.Required, validation.In(BackendFile, BackendSQLite)),
	); err != nil {
		return err
	}
	if c.Watch && c.Backend != BackendFile {
		return fmt.Errorf("store: watch requires the %q backend", BackendFile)
	}
	return nil
}

// DashboardConfig tunes the live dashboard.
type DashboardConfig struct {
	// Throttle is the minimum gap between list.changed events for adds.
	Throttle time.Duration `yaml:"throttle"`
}

// Validate validates the dashboard configuration.
func (c *DashboardConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Throttle, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			CacheDir: "./.cache",
			File:     "recent_notes.msgpack",
			Backend:  BackendFile,
			Watch:    true,
		},
		Dashboard: DashboardConfig{
			Throttle: time.Second,
		},
	}
}
