package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
	"github.com/noar-utils/snapshooter/internal/infrastructure/archive"
)

// recordView is the JSON form of a snapshot
type recordView struct {
	ID             int64  `json:"id"`
	Folder         string `json:"folder"`
	Name           string `json:"name"`
	Context        string `json:"context"`
	Date           string `json:"date"`
	Path           string `json:"path"`
	HasPreferences bool   `json:"has_preferences"`
}

func newRecordView(r snapshot.Record, dir string) recordView {
	return recordView{
		ID:             r.ID,
		Folder:         snapshot.FolderName(r.ID),
		Name:           r.Name,
		Context:        r.Context,
		Date:           r.Date,
		Path:           r.Path,
		HasPreferences: archive.HasPreferences(dir),
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// NewCreateCommand creates the create command
func NewCreateCommand(container *CLIContainer) *cobra.Command {
	var name, note string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Take a snapshot of the current save data and preferences",
		Long: `Copy the persistent data directory and the player preferences of the
application into a new snapshot.

Examples:
  snapshooter create --name "Boss fight" --context "right before the dragon"
  snapshooter create --product "Space Game" --company Noar`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := container.requireSnapshots()
			if err != nil {
				return err
			}

			record, err := svc.Create(cmd.Context(), name, note)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✅ Snapshot created"))
			printRecord(cmd.OutOrStdout(), record)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the snapshot")
	cmd.Flags().StringVarP(&note, "context", "c", "", "Free-form note describing the game state")

	return cmd
}

// NewListCommand creates the list command
func NewListCommand(container *CLIContainer) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List snapshots, oldest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := container.requireSnapshots()
			if err != nil {
				return err
			}

			records, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				views := make([]recordView, 0, len(records))
				for _, r := range records {
					views = append(views, newRecordView(r, svc.Dir(r.ID)))
				}
				return writeJSON(cmd.OutOrStdout(), views)
			}

			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Snapshots in "+svc.Root()))
			fmt.Fprintln(cmd.OutOrStdout(), renderRecordTable(records))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print snapshots as JSON")

	return cmd
}

// NewShowCommand creates the show command
func NewShowCommand(container *CLIContainer) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id|latest>",
		Short: "Show the details of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := container.requireSnapshots()
			if err != nil {
				return err
			}

			record, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), newRecordView(record, svc.Dir(record.ID)))
			}
			printRecord(cmd.OutOrStdout(), record)

			stored, err := svc.Preferences(cmd.Context(), record.ID)
			if errors.Is(err, snapshot.ErrMissingPreferenceBackup) {
				fmt.Fprintln(cmd.OutOrStdout(), renderField("Preferences", warningStyle.Render("no backup")))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderField("Preferences", fmt.Sprintf("%d keys", len(stored))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the snapshot as JSON")

	return cmd
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand(container *CLIContainer) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id|latest>",
		Aliases: []string{"rm"},
		Short:   "Delete a snapshot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := container.requireSnapshots()
			if err != nil {
				return err
			}

			record, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			ok, err := confirm(cmd, fmt.Sprintf("Delete snapshot %s (%s)?", record.IDString(), record.Name), yes)
			if err != nil || !ok {
				return err
			}

			if err := svc.Delete(cmd.Context(), record.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("🗑️  Snapshot "+record.IDString()+" deleted"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// NewDeleteAllCommand creates the delete-all command
func NewDeleteAllCommand(container *CLIContainer) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every snapshot and the snapshot directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := container.requireSnapshots()
			if err != nil {
				return err
			}

			ok, err := confirm(cmd, fmt.Sprintf("Delete every snapshot in %s?", svc.Root()), yes)
			if err != nil || !ok {
				return err
			}

			if err := svc.DeleteAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("🗑️  All snapshots deleted"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// NewApplyCommand creates the apply command
func NewApplyCommand(container *CLIContainer) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "apply <id|latest>",
		Short: "Restore a snapshot onto the current save data and preferences",
		Long: `Restore a snapshot. The current preferences are cleared, the snapshot's
data is copied over the persistent data directory and the saved preferences
are written back.

Files created after the snapshot was taken are not removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := container.requireSnapshots()
			if err != nil {
				return err
			}

			record, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			ok, err := confirm(cmd, fmt.Sprintf("Apply snapshot %s (%s)? Current preferences will be replaced.", record.IDString(), record.Name), yes)
			if err != nil || !ok {
				return err
			}

			if err := svc.Apply(cmd.Context(), record.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✅ Snapshot "+record.IDString()+" applied"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func printRecord(w io.Writer, r snapshot.Record) {
	fmt.Fprintln(w, renderField("ID", r.IDString()))
	fmt.Fprintln(w, renderField("Name", r.Name))
	fmt.Fprintln(w, renderField("Date", r.Date))
	fmt.Fprintln(w, renderField("Context", r.Context))
	fmt.Fprintln(w, renderField("Path", r.Path))
}
