// Package config provides configuration file support for versync.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the versync configuration.
type Config struct {
	PackagesDir string        `yaml:"packages_dir"`
	Concurrency int           `yaml:"concurrency"`
	AuditLog    string        `yaml:"audit_log"`
	Logging     LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, text
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		PackagesDir: "packages",
		Concurrency: 8,
		AuditLog:    filepath.Join(".versync", "audit", "audit.jsonl"),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from .versync/config.yaml.
// Returns default config if file doesn't exist.
func Load(repoRoot string) (*Config, error) {
	cfg := Default()
	cfgPath := filepath.Join(repoRoot, ".versync", "config.yaml")

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return cfg, nil // No config file is OK, use defaults
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	return cfg, nil
}

// Save writes configuration to .versync/config.yaml.
func Save(repoRoot string, cfg *Config) error {
	cfgPath := filepath.Join(repoRoot, ".versync", "config.yaml")

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(cfgPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Set updates a configuration value by key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "packages_dir":
		if value == "" {
			return fmt.Errorf("packages_dir cannot be empty")
		}
		c.PackagesDir = value
	case "concurrency":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("concurrency must be a positive integer, got %q", value)
		}
		c.Concurrency = n
	case "audit_log":
		if value == "" {
			return fmt.Errorf("audit_log cannot be empty")
		}
		c.AuditLog = value
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		if value != "json" && value != "text" {
			return fmt.Errorf("logging.format must be json or text, got %q", value)
		}
		c.Logging.Format = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Get returns a configuration value by key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "packages_dir":
		return c.PackagesDir, nil
	case "concurrency":
		return strconv.Itoa(c.Concurrency), nil
	case "audit_log":
		return c.AuditLog, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// AuditLogPath resolves the audit log path against the repository root.
func (c *Config) AuditLogPath(repoRoot string) string {
	if filepath.IsAbs(c.AuditLog) {
		return c.AuditLog
	}
	return filepath.Join(repoRoot, c.AuditLog)
}
