package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
)

// NewPrefsCommand creates the prefs command
func NewPrefsCommand(container *CLIContainer) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect player preferences",
	}

	prefsCmd.AddCommand(NewPrefsDumpCommand(container))

	return prefsCmd
}

// NewPrefsDumpCommand creates the dump subcommand
func NewPrefsDumpCommand(container *CLIContainer) *cobra.Command {
	var asJSON bool
	var ref string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the current preferences, or those saved in a snapshot",
		Long: `Print the player preferences of the application as read from the native
store (the property list on macOS, the registry on Windows).

With --snapshot, print the preferences saved in a snapshot instead. --json
prints the same document the snapshot backup contains.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := container.requireSnapshots()
			if err != nil {
				return err
			}

			var store prefs.Store
			if ref != "" {
				record, err := svc.Get(cmd.Context(), ref)
				if err != nil {
					return err
				}
				if store, err = svc.Preferences(cmd.Context(), record.ID); err != nil {
					return err
				}
			} else if store, err = svc.ExportPreferences(cmd.Context()); err != nil {
				return err
			}

			if asJSON {
				data, err := prefs.Encode(store)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			printStore(cmd.OutOrStdout(), store)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print preferences as JSON")
	cmd.Flags().StringVar(&ref, "snapshot", "", "Read the preferences saved in this snapshot (id or 'latest')")

	return cmd
}

func printStore(w io.Writer, store prefs.Store) {
	if len(store) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No preferences."))
		return
	}

	rows := []string{headerStyle.Render(fmt.Sprintf("%-32s │ %-6s │ %s", "KEY", "TYPE", "VALUE"))}
	for _, key := range store.Keys() {
		v := store[key]
		rows = append(rows, fmt.Sprintf("%-32s │ %-6s │ %s", truncateString(key, 32), v.Kind(), truncateString(singleLine(v.String()), 60)))
	}
	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, rows...))
}
