// Package config provides configuration management for pybundle. It
// handles loading and validating application settings from YAML files,
// providing sensible defaults while allowing customization through
// configuration files and environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kumarlokesh/pybundle/pkg/catalog"
	"github.com/kumarlokesh/pybundle/pkg/errors"
)

// AppName is the name of the application used in paths.
const AppName = "pybundle"

// Config represents the application configuration.
type Config struct {
	// Catalog configuration
	Catalog CatalogConfig `yaml:"catalog"`

	// General settings
	Settings Settings `yaml:"settings"`
}

// CatalogConfig points at the remote environment's package catalog.
type CatalogConfig struct {
	// Source is a local file path or an http(s) URL serving the catalog
	// JSON (package name to available versions).
	Source string `yaml:"source"`
}

// Settings represents general application settings.
type Settings struct {
	// PipPath overrides the pip executable; empty means "honor the
	// PYBUNDLE_PIP environment variable, then fall back to python3 -m pip".
	PipPath string `yaml:"pip_path,omitempty"`

	// RuntimePackage is the companion package injected into every bundle's
	// package set.
	RuntimePackage string `yaml:"runtime_package,omitempty"`

	// HTTPTimeout bounds catalog fetches.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			RuntimePackage: catalog.DefaultRuntimePackage,
			HTTPTimeout:    catalog.DefaultHTTPTimeout,
			LogLevel:       "info",
		},
	}
}

// LoadConfig reads and validates a configuration file. A missing file
// yields the defaults rather than an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %s", path)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Settings.HTTPTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "http_timeout cannot be negative")
	}
	switch c.Settings.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return errors.Wrapf(errors.ErrConfigValidation, "unknown log_level %q", c.Settings.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the platform-specific default location of
// the config file.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to determine user config directory")
	}
	return filepath.Join(configDir, AppName, "config.yaml"), nil
}
