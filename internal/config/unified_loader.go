package config

import (
	"context"
	"fmt"

	appconfig "github.com/noar-utils/snapshooter/internal/application/config"
	"github.com/noar-utils/snapshooter/internal/core/domain"
	configports "github.com/noar-utils/snapshooter/internal/core/ports/config"
	configinfra "github.com/noar-utils/snapshooter/internal/infrastructure/config"
)

// LoadOptions provides configuration for how config should be loaded
type LoadOptions struct {
	// ConfigPath replaces the project config file when set
	ConfigPath string

	// ProjectDir is searched for a Unity project and a project config file.
	// Defaults to the working directory.
	ProjectDir string

	// OverrideValues allows direct value overrides (typically from CLI flags)
	OverrideValues map[string]interface{}
}

// UnifiedLoader collects configuration from every source with precedence
// CLI > environment > project file > user file > Unity project settings
type UnifiedLoader struct {
	loaders func(LoadOptions) []configports.Loader
}

// NewUnifiedLoader creates a new unified configuration loader
func NewUnifiedLoader() *UnifiedLoader {
	return &UnifiedLoader{loaders: defaultLoaders}
}

// NewUnifiedLoaderWith creates a loader over fixed sources
func NewUnifiedLoaderWith(loaders ...configports.Loader) *UnifiedLoader {
	return &UnifiedLoader{loaders: func(LoadOptions) []configports.Loader { return loaders }}
}

func defaultLoaders(opts LoadOptions) []configports.Loader {
	fileLoader := configinfra.NewFileLoader(opts.ConfigPath)
	if opts.ProjectDir != "" {
		fileLoader = configinfra.NewFileLoaderWithDirs(opts.ConfigPath, opts.ProjectDir, configinfra.UserConfigDir())
	}
	return []configports.Loader{
		configinfra.NewEnvLoader(),
		fileLoader,
		configinfra.NewProjectSettingsLoader(opts.ProjectDir),
	}
}

// Load loads configuration from all available sources with proper precedence
func (l *UnifiedLoader) Load(ctx context.Context) (*domain.UnifiedConfig, error) {
	return l.LoadWithOptions(ctx, LoadOptions{})
}

// LoadWithOptions loads configuration with specific loading options. Source
// errors are fatal; validation is left to the caller since some commands
// run without a namespace.
func (l *UnifiedLoader) LoadWithOptions(ctx context.Context, opts LoadOptions) (*domain.UnifiedConfig, error) {
	aggregator := appconfig.NewAggregator(l.loaders(opts)...)
	snap, err := aggregator.LoadSnapshot(ctx, opts.OverrideValues)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg := domain.DefaultUnifiedConfig()
	for _, k := range snap.Keys() {
		e := snap[k]
		if err := cfg.SetValue(k, e.Source, e.SourcePath, e.Value, e.Priority); err != nil {
			return nil, fmt.Errorf("invalid value from %s (%s): %w", e.Source, e.SourcePath, err)
		}
	}
	return cfg, nil
}
