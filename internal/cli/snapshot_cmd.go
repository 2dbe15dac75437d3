package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/alexanderramin/roadmap/internal/service"
)

func newSnapshotCmd(app *App, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save schedules and compare against them to spot slipped deadlines",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(cmd, *configPath); err != nil {
				return err
			}
			return app.openSnapshots()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.closeSnapshots == nil {
				return nil
			}
			closeFn := app.closeSnapshots
			app.closeSnapshots = nil
			return closeFn()
		},
	}
	cmd.PersistentFlags().String("db", "", "Snapshot database path (default ~/.roadmap/roadmap.db)")

	cmd.AddCommand(
		newSnapshotSaveCmd(app),
		newSnapshotListCmd(app),
		newSnapshotDiffCmd(app),
		newSnapshotRemoveCmd(app),
	)
	return cmd
}

func newSnapshotSaveCmd(app *App) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "save DIR...",
		Short: "Record the current schedule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := app.Snapshots.Save(cmd.Context(), service.SaveSnapshotRequest{
				Dirs:   args,
				Label:  label,
				Layout: app.layout(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %s (%s)\n",
				formatter.TruncID(snap.ID),
				formatter.Plural(len(snap.Milestones), "milestone", "milestones"))
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Free-form label, e.g. \"Q3 plan\"")
	cmd.Flags().Int("start-year", 0, "Year whose first quarter is Q0")
	return cmd
}

func newSnapshotListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshots, err := app.Snapshots.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(snapshots) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots saved.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSnapshotList(snapshots, app.Now()))
			return nil
		},
	}
}

func newSnapshotDiffCmd(app *App) *cobra.Command {
	var snapshotID string

	cmd := &cobra.Command{
		Use:   "diff [DIR...]",
		Short: "Compare the current schedule with a snapshot",
		Long: `Compare the current schedule with a snapshot (the latest unless --id is
given). Without DIR arguments the snapshot's own source directories are
reloaded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSnapshotID(cmd, app, snapshotID)
			if err != nil {
				return err
			}
			diff, err := app.Snapshots.Diff(cmd.Context(), service.DiffRequest{
				Dirs:       args,
				SnapshotID: id,
				Layout:     app.layout(),
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSnapshotDiff(diffView(diff)))
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotID, "id", "", "Snapshot ID or unique prefix (default latest)")
	return cmd
}

func newSnapshotRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a snapshot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSnapshotID(cmd, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Snapshots.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

// resolveSnapshotID expands a unique ID prefix to the full snapshot ID.
// An empty input stays empty.
func resolveSnapshotID(cmd *cobra.Command, app *App, input string) (string, error) {
	if input == "" {
		return "", nil
	}
	snapshots, err := app.Snapshots.List(cmd.Context())
	if err != nil {
		return "", err
	}

	var matches []string
	for _, s := range snapshots {
		if s.ID == input {
			return s.ID, nil
		}
		if len(input) >= 4 && len(s.ID) > len(input) && s.ID[:len(input)] == input {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("snapshot not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("snapshot ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func diffView(d *service.SnapshotDiff) formatter.DiffView {
	v := formatter.DiffView{
		SnapshotID:  d.Snapshot.ID,
		Label:       d.Snapshot.Label,
		Added:       d.Added,
		AddedDeps:   d.AddedDeps,
		RemovedDeps: d.RemovedDeps,
	}
	for _, m := range d.Removed {
		v.Removed = append(v.Removed, m.MilestoneID)
	}
	for _, c := range d.Slipped {
		v.Slipped = append(v.Slipped, formatter.Shift(c))
	}
	for _, c := range d.PulledIn {
		v.PulledIn = append(v.PulledIn, formatter.Shift(c))
	}
	return v
}
