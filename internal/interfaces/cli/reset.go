package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command
func NewResetCommand(container *CLIContainer) *cobra.Command {
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe the live save data or preferences of the application",
		Long: `Wipe the live state of the application without touching any snapshot.

  data   removes the persistent data directory, and the data directory when configured
  prefs  clears the player preferences
  all    both of the above`,
	}

	resetCmd.AddCommand(newResetSubcommand(container, "data", "Delete the save data", func(cmd *cobra.Command) error {
		state, err := container.requireState()
		if err != nil {
			return err
		}
		return state.DeleteSaveData(cmd.Context())
	}))
	resetCmd.AddCommand(newResetSubcommand(container, "prefs", "Delete the player preferences", func(cmd *cobra.Command) error {
		state, err := container.requireState()
		if err != nil {
			return err
		}
		return state.DeletePreferences(cmd.Context())
	}))
	resetCmd.AddCommand(newResetSubcommand(container, "all", "Delete the save data and the player preferences", func(cmd *cobra.Command) error {
		state, err := container.requireState()
		if err != nil {
			return err
		}
		return state.DeleteAllData(cmd.Context())
	}))

	return resetCmd
}

func newResetSubcommand(container *CLIContainer, use, short string, run func(cmd *cobra.Command) error) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := container.requireState(); err != nil {
				return err
			}

			ok, err := confirm(cmd, short+"? This cannot be undone.", yes)
			if err != nil || !ok {
				return err
			}

			if err := run(cmd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✅ Done"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
