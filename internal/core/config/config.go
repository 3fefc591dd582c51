// Package config handles configuration loading and validation for todomanage.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// Timezone is the IANA name used to decide what "today" and "tomorrow"
	// mean and to read reminder times entered without an offset.
	Timezone  string          `yaml:"timezone"`
	User      string          `yaml:"user"`  // default requester for CLI commands
	Theme     string          `yaml:"theme"` // lipgloss palette name
	Includes  []string        `yaml:"includes"`
	Database  DatabaseConfig  `yaml:"database"`
	Reminders RemindersConfig `yaml:"reminders"`
	DataDir   string          `yaml:"-"` // set by caller, not from config file
}

// DatabaseConfig tunes the sqlite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
}

// RemindersConfig controls the background reminder job.
type RemindersConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timezone: "UTC",
		Theme:    "tokyo-night",
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5 * time.Second,
		},
		Reminders: RemindersConfig{
			PollInterval: time.Minute,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := cfg.readFile(configPath); err != nil {
				return nil, err
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// readFile decodes configPath on top of the receiver. Files listed under
// includes are merged first so the main file wins on conflicting keys.
func (c *Config) readFile(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var main map[string]any
	if err := yaml.Unmarshal(data, &main); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	var head struct {
		Includes []string `yaml:"includes"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	merged, err := loadIncludes(filepath.Dir(configPath), head.Includes)
	if err != nil {
		return err
	}
	mergeMaps(merged, main)

	bits, err := yaml.Marshal(merged)
	if err != nil {
		return fmt.Errorf("merge config: %w", err)
	}

	if err := yaml.Unmarshal(bits, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	return nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Timezone == "" {
		c.Timezone = defaults.Timezone
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Reminders.PollInterval == 0 {
		c.Reminders.PollInterval = defaults.Reminders.PollInterval
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data directory cannot be empty")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q is not a known location", c.Timezone)
	}

	if c.Database.MaxOpenConns < 1 {
		return errors.New("database.max_open_conns must be at least 1")
	}

	if c.Database.MaxIdleConns < 0 {
		return errors.New("database.max_idle_conns cannot be negative")
	}

	if c.Reminders.PollInterval < 0 {
		return errors.New("reminders.poll_interval cannot be negative")
	}

	return nil
}

// Location returns the configured timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
