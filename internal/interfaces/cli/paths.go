package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPathsCommand creates the paths command
func NewPathsCommand(container *CLIContainer) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Show the directories the tool works on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := container.requireState()
			if err != nil {
				return err
			}
			p := state.Paths()

			platform := ""
			if container.Extractor != nil {
				platform = container.Extractor.Platform()
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"persistent_data_path": p.PersistentData,
					"data_path":            p.Data,
					"snapshot_root":        p.SnapshotRoot,
					"preference_store":     platform,
				})
			}

			data := p.Data
			if data == "" {
				data = mutedStyle.Render("(not set)")
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderField("Persistent data", p.PersistentData))
			fmt.Fprintln(cmd.OutOrStdout(), renderField("Data", data))
			fmt.Fprintln(cmd.OutOrStdout(), renderField("Snapshots", p.SnapshotRoot))
			fmt.Fprintln(cmd.OutOrStdout(), renderField("Preference store", platform))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print paths as JSON")

	return cmd
}
