package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kumarlokesh/pybundle/internal/logger"
	"github.com/kumarlokesh/pybundle/pkg/catalog"
	"github.com/kumarlokesh/pybundle/pkg/config"
	"github.com/kumarlokesh/pybundle/pkg/model"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
)

// loadConfig resolves the effective configuration, falling back to the
// default config path when no --config flag was given.
func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}

	if configPath == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", err)
		}
		configPath = defaultPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Settings.LogLevel, os.Stderr)
}

// ParseRequirements parses "name==version" specs from command arguments.
func ParseRequirements(specs []string) ([]model.Requirement, error) {
	reqs := make([]model.Requirement, 0, len(specs))
	for _, spec := range specs {
		req, err := model.ParseRequirement(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to parse requirement %q: %w", spec, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// catalogSource adapts catalog.Load to the pipeline's provider interface,
// binding a source and timeout at construction time.
type catalogSource struct {
	source  string
	timeout time.Duration
}

func (s catalogSource) Load(ctx context.Context) (catalog.Catalog, error) {
	return catalog.Load(ctx, s.source, s.timeout)
}
