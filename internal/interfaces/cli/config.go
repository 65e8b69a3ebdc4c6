package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noar-utils/snapshooter/internal/core/domain"
)

// NewConfigCommand creates the config command
func NewConfigCommand(container *CLIContainer) *cobra.Command {
	var configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage configuration settings for snapshooter.

Values are resolved from command line flags, SNAPSHOOTER_* environment
variables, ./.snapshooter.yaml, $HOME/.config/snapshooter/config.yaml and
finally the ProjectSettings of the Unity project in the working directory.`,
	}

	configCmd.AddCommand(NewConfigShowCommand(container))
	configCmd.AddCommand(NewConfigPathCommand(container))
	configCmd.AddCommand(NewConfigSaveCommand(container))

	return configCmd
}

// NewConfigShowCommand creates the show subcommand
func NewConfigShowCommand(container *CLIContainer) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration and where each value comes from",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Config == nil {
				return fmt.Errorf("configuration not loaded")
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), container.Config)
			}

			printConfig(cmd, container.Config)
			if container.ConfigErr != nil {
				fmt.Fprintln(cmd.OutOrStdout(), warningStyle.Render("⚠️  "+container.ConfigErr.Error()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print configuration as JSON")

	return cmd
}

func printConfig(cmd *cobra.Command, config *domain.UnifiedConfig) {
	fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Current Configuration:"))
	for _, field := range domain.ConfigFields {
		value := configValue(config, field)
		origin := "default"
		if source, ok := config.GetSource(field); ok {
			origin = source.Source
			if source.SourcePath != "" {
				origin += ": " + source.SourcePath
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderField(field, fmt.Sprintf("%s %s", value, mutedStyle.Render("("+origin+")"))))
	}
}

func configValue(config *domain.UnifiedConfig, field string) string {
	var v string
	switch field {
	case "company":
		v = config.Company
	case "product":
		v = config.Product
	case "scope":
		v = config.Scope
	case "persistent_data_path":
		v = config.PersistentDataPath
	case "data_path":
		v = config.DataPath
	case "snapshot_root":
		v = config.SnapshotRoot
	case "log_level":
		v = config.LogLevel
	case "debug":
		v = fmt.Sprintf("%t", config.Debug)
	}
	if v == "" {
		return "(not set)"
	}
	return v
}

// NewConfigPathCommand creates the path subcommand
func NewConfigPathCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ConfigStorage == nil {
				return fmt.Errorf("configuration storage not available")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file path: %s\n", container.ConfigStorage.GetConfigPath())
			return nil
		},
	}
}

// NewConfigSaveCommand creates the save subcommand
func NewConfigSaveCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the effective configuration as the user configuration file",
		Long: `Write the effective configuration, including any flags given on this
command line, to the user configuration file so later runs pick it up.

Example:
  snapshooter config save --company Noar --product "Space Game"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ConfigStorage == nil || container.Config == nil {
				return fmt.Errorf("configuration storage not available")
			}
			if err := container.Config.Validate(); err != nil {
				return err
			}
			if err := container.ConfigStorage.Save(cmd.Context(), container.Config); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✅ Configuration saved to "+container.ConfigStorage.GetConfigPath()))
			return nil
		},
	}
}
