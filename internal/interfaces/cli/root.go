package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/noar-utils/snapshooter/internal/application/ports"
	"github.com/noar-utils/snapshooter/internal/application/services"
	"github.com/noar-utils/snapshooter/internal/config"
	"github.com/noar-utils/snapshooter/internal/core/domain"
	coreports "github.com/noar-utils/snapshooter/internal/core/ports"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// ErrNotConfigured is returned by commands that need an application namespace
// when none could be resolved
var ErrNotConfigured = errors.New("application not configured")

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	Config        *domain.UnifiedConfig
	Snapshots     *services.SnapshotService
	State         *services.StateService
	Extractor     coreports.PreferenceExtractor
	ConfigStorage *config.UnifiedStorage
	Logger        ports.LoggingGateway

	// ConfigErr records why the services above could not be built
	ConfigErr error

	MainContainer interface{} // Will be set to *di.Container, avoiding circular import
}

// NewRootCommand RootCommand represents the base command when called without any subcommands
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "snapshooter",
		Short: "Snapshooter - save state snapshots for Unity games",
		Long: `Snapshooter captures the save data and player preferences of a Unity
application into named snapshots, and puts them back on demand.

Snapshots live next to the persistent data directory, one folder per
snapshot, so a tester can jump between game states without replaying.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigurationOverrides(cmd, container); err != nil {
				return fmt.Errorf("failed to apply configuration overrides: %w", err)
			}
			return nil
		},
	}

	rootCmd.SetVersionTemplate(versionString())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default is ./.snapshooter.yaml, then $HOME/.config/snapshooter/config.yaml)")
	rootCmd.PersistentFlags().String("company", "", "Company name of the Unity application")
	rootCmd.PersistentFlags().String("product", "", "Product name of the Unity application")
	rootCmd.PersistentFlags().String("scope", "", "Preference scope on Windows: editor or player")
	rootCmd.PersistentFlags().String("persistent-data-path", "", "Override the persistent data directory")
	rootCmd.PersistentFlags().String("data-path", "", "Data directory removed by 'reset data'")
	rootCmd.PersistentFlags().String("snapshot-root", "", "Override the snapshot directory")

	rootCmd.AddCommand(NewCreateCommand(container))
	rootCmd.AddCommand(NewListCommand(container))
	rootCmd.AddCommand(NewShowCommand(container))
	rootCmd.AddCommand(NewDeleteCommand(container))
	rootCmd.AddCommand(NewDeleteAllCommand(container))
	rootCmd.AddCommand(NewApplyCommand(container))
	rootCmd.AddCommand(NewPrefsCommand(container))
	rootCmd.AddCommand(NewResetCommand(container))
	rootCmd.AddCommand(NewPathsCommand(container))
	rootCmd.AddCommand(NewBrowseCommand(container))
	rootCmd.AddCommand(NewConfigCommand(container))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "snapshooter version %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build time: %s\nGo version: %s\nPlatform: %s/%s\n",
				BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}

func versionString() string {
	return fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH)
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// flagOverrides maps persistent flags onto configuration fields
var flagOverrides = map[string]string{
	"company":              "company",
	"product":              "product",
	"scope":                "scope",
	"persistent-data-path": "persistent_data_path",
	"data-path":            "data_path",
	"snapshot-root":        "snapshot_root",
}

// applyConfigurationOverrides loads the configuration with the explicitly set
// flags on top and rebuilds the services
func applyConfigurationOverrides(cmd *cobra.Command, container *CLIContainer) error {
	mainContainer, ok := container.MainContainer.(interface {
		Configure(ctx context.Context, opts config.LoadOptions) error
	})
	if !ok {
		// Silently continue if container doesn't support overrides
		return nil
	}

	overrides := make(map[string]interface{})
	for flag, field := range flagOverrides {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			overrides[field] = v
		}
	}
	if cmd.Flags().Changed("debug") {
		v, _ := cmd.Flags().GetBool("debug")
		overrides["debug"] = v
	}

	configPath, _ := cmd.Flags().GetString("config")
	return mainContainer.Configure(cmd.Context(), config.LoadOptions{
		ConfigPath:     configPath,
		OverrideValues: overrides,
	})
}

// requireSnapshots returns the snapshot service or the reason it is missing
func (c *CLIContainer) requireSnapshots() (*services.SnapshotService, error) {
	if c.Snapshots == nil {
		return nil, c.notConfigured()
	}
	return c.Snapshots, nil
}

// requireState returns the state service or the reason it is missing
func (c *CLIContainer) requireState() (*services.StateService, error) {
	if c.State == nil {
		return nil, c.notConfigured()
	}
	return c.State, nil
}

func (c *CLIContainer) notConfigured() error {
	if c.ConfigErr != nil {
		return fmt.Errorf("%w: %v\nSet --company and --product, SNAPSHOOTER_COMPANY and SNAPSHOOTER_PRODUCT, or run inside a Unity project", ErrNotConfigured, c.ConfigErr)
	}
	return ErrNotConfigured
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context, container *CLIContainer) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
