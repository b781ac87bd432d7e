// Package config provides configuration loading and management for the
// migration pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete pipeline configuration
type Config struct {
	NATS    NATSConfig    `yaml:"nats"`
	Exports ExportsConfig `yaml:"exports"`
	Backups BackupsConfig `yaml:"backups"`
}

// NATSConfig configures the NATS connection backing the stores
type NATSConfig struct {
	// URL is the NATS server URL (empty = use embedded server)
	URL string `yaml:"url"`
	// Embedded indicates whether to use embedded NATS
	Embedded bool `yaml:"embedded"`
	// StoreDir is the JetStream storage directory for the embedded server
	StoreDir string `yaml:"store_dir"`
}

// ExportsConfig configures where legacy export files are read from
type ExportsConfig struct {
	// Dir is the directory the wizard UI writes export files into
	Dir string `yaml:"dir"`
	// Glob selects export files for batch migration, relative to Dir
	Glob string `yaml:"glob"`
	// DebounceDelay is how long watch mode waits before migrating a changed file
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// BackupsConfig configures snapshot retention
type BackupsConfig struct {
	// Keep is how many snapshots to retain per form type when pruning
	Keep int `yaml:"keep"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		NATS: NATSConfig{
			URL:      "",
			Embedded: true,
			StoreDir: ".procdoc/jetstream",
		},
		Exports: ExportsConfig{
			Dir:           "exports",
			Glob:          "**/*.json",
			DebounceDelay: 500 * time.Millisecond,
		},
		Backups: BackupsConfig{
			Keep: 10,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Exports.Dir == "" {
		return fmt.Errorf("exports.dir is required")
	}
	if c.Exports.Glob == "" {
		return fmt.Errorf("exports.glob is required")
	}
	if c.Backups.Keep < 1 {
		return fmt.Errorf("backups.keep must be at least 1")
	}
	if !c.NATS.Embedded && c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required when nats.embedded is false")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
		c.NATS.Embedded = false
	}
	if other.NATS.StoreDir != "" {
		c.NATS.StoreDir = other.NATS.StoreDir
	}

	// Exports
	if other.Exports.Dir != "" {
		c.Exports.Dir = other.Exports.Dir
	}
	if other.Exports.Glob != "" {
		c.Exports.Glob = other.Exports.Glob
	}
	if other.Exports.DebounceDelay != 0 {
		c.Exports.DebounceDelay = other.Exports.DebounceDelay
	}

	// Backups
	if other.Backups.Keep != 0 {
		c.Backups.Keep = other.Backups.Keep
	}
}
