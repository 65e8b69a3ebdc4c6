package di

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/noar-utils/snapshooter/internal/application/ports"
	"github.com/noar-utils/snapshooter/internal/application/services"
	"github.com/noar-utils/snapshooter/internal/config"
	"github.com/noar-utils/snapshooter/internal/core/domain"
	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
	coreports "github.com/noar-utils/snapshooter/internal/core/ports"
	"github.com/noar-utils/snapshooter/internal/infrastructure/archive"
	"github.com/noar-utils/snapshooter/internal/infrastructure/logging"
	"github.com/noar-utils/snapshooter/internal/infrastructure/paths"
	"github.com/noar-utils/snapshooter/internal/infrastructure/prefstore"
	"github.com/noar-utils/snapshooter/internal/interfaces/cli"
)

// Container holds all application dependencies
type Container struct {
	// Configuration
	Loader        *config.UnifiedLoader
	ConfigStorage *config.UnifiedStorage
	Config        *domain.UnifiedConfig

	// Infrastructure
	Paths     *paths.UnityPaths
	Live      coreports.LivePreferences
	Extractor coreports.PreferenceExtractor
	Archives  *archive.Store

	// Application services
	SnapshotService *services.SnapshotService
	StateService    *services.StateService

	// CLI
	CLIContainer *cli.CLIContainer

	// Logger
	Logger *logging.Logger

	goos    string
	homeDir string
}

// NewContainer creates the dependency injection container for this machine.
// Services that need an application namespace are built by Configure once
// the command line is parsed.
func NewContainer() (*Container, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home directory: %w", err)
	}
	return NewContainerFor(runtime.GOOS, homeDir, os.Stderr), nil
}

// NewContainerFor creates a container for the given platform and home
// directory, logging to w
func NewContainerFor(goos, homeDir string, w io.Writer) *Container {
	c := &Container{
		Loader:  config.NewUnifiedLoader(),
		Logger:  logging.NewLogger(w, ports.LogLevelInfo),
		goos:    goos,
		homeDir: homeDir,
	}

	if storage, err := config.NewUnifiedStorage(); err == nil {
		c.ConfigStorage = storage
	} else {
		c.Logger.Log(ports.LogLevelWarn, "Config storage unavailable", map[string]interface{}{"error": err.Error()})
	}

	c.CLIContainer = &cli.CLIContainer{
		ConfigStorage: c.ConfigStorage,
		Logger:        c.Logger,
		MainContainer: c, // Reference to self for override methods
	}
	return c
}

// Configure loads the configuration and builds the services. A configuration
// that names no application is not an error here: it is recorded on the CLI
// container so commands that need one can report it.
func (c *Container) Configure(ctx context.Context, opts config.LoadOptions) error {
	cfg, err := c.Loader.LoadWithOptions(ctx, opts)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.CLIContainer.Config = cfg
	c.Logger.SetLogLevel(logging.ParseLevel(cfg.EffectiveLogLevel()))

	if err := cfg.Validate(); err != nil {
		c.CLIContainer.ConfigErr = err
		c.Logger.Log(ports.LogLevelDebug, "Services not built", map[string]interface{}{"reason": err.Error()})
		return nil
	}
	c.CLIContainer.ConfigErr = nil

	if err := c.initializeComponents(cfg); err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}
	return nil
}

// initializeComponents initializes all components with proper dependencies
func (c *Container) initializeComponents(cfg *domain.UnifiedConfig) error {
	// 1. Resolve the application namespace and preference scope
	ns, err := snapshot.NewNamespace(cfg.Company, cfg.Product)
	if err != nil {
		return err
	}
	scope, err := prefstore.ParseScope(cfg.Scope)
	if err != nil {
		return err
	}

	// 2. Initialize the preference backends
	opts := prefstore.Options{GOOS: c.goos, Scope: scope, HomeDir: c.homeDir, Logger: c.Logger}
	live, native, err := prefstore.NewLivePreferences(opts, ns)
	if err != nil {
		return fmt.Errorf("failed to open preferences: %w", err)
	}
	if !native {
		c.Logger.Log(ports.LogLevelWarn, "No native preference store on this platform, preferences are kept in memory",
			map[string]interface{}{"platform": c.goos})
	}
	c.closeLive()
	c.Live = live
	c.Extractor = prefstore.NewExtractor(opts, ns, live)

	// 3. Resolve directories
	c.Paths = paths.NewUnityPaths(c.goos, c.homeDir, ns, paths.Overrides{
		PersistentDataPath: cfg.PersistentDataPath,
		DataPath:           cfg.DataPath,
		SnapshotRoot:       cfg.SnapshotRoot,
	})
	c.Archives = archive.NewStore(c.Paths.SnapshotRoot(), c.Logger)

	// 4. Initialize application services
	c.SnapshotService = services.NewSnapshotService(ns, c.Paths, c.Archives, c.Extractor, c.Live, c.Logger)
	c.StateService = services.NewStateService(c.Paths, c.Live, c.Logger)

	// 5. Expose them to the CLI
	c.CLIContainer.Snapshots = c.SnapshotService
	c.CLIContainer.State = c.StateService
	c.CLIContainer.Extractor = c.Extractor

	c.Logger.Log(ports.LogLevelDebug, "Dependency injection container initialized", map[string]interface{}{
		"namespace":  ns.String(),
		"persistent": c.Paths.PersistentDataPath(),
		"snapshots":  c.Paths.SnapshotRoot(),
		"prefs":      c.Extractor.Platform(),
	})
	return nil
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}

// Shutdown gracefully shuts down all components. Every operation persists
// its own changes, so there is nothing to flush; open preference handles
// are released.
func (c *Container) Shutdown(ctx context.Context) error {
	c.Logger.Log(ports.LogLevelDebug, "Shutting down application", nil)
	return c.closeLive()
}

func (c *Container) closeLive() error {
	closer, ok := c.Live.(io.Closer)
	if !ok {
		return nil
	}
	if err := closer.Close(); err != nil {
		c.Logger.LogError(err, "Failed to close preference store", nil)
		return err
	}
	return nil
}

// GetVersion returns version information
func (c *Container) GetVersion() map[string]string {
	return map[string]string{
		"version":    cli.Version,
		"build_time": cli.BuildTime,
	}
}
