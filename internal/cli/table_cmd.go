package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
)

func newTableCmd(app *App) *cobra.Command {
	var matrix bool

	cmd := &cobra.Command{
		Use:   "table DIR...",
		Short: "Print the milestone table without drawing it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Table.Table(cmd.Context(), args)
			if err != nil {
				return err
			}
			if res.Table.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No milestones found.")
				return nil
			}
			if matrix {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMatrix(res.Table))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSchedule(res.Table))
			return nil
		},
	}

	cmd.Flags().BoolVar(&matrix, "matrix", false, "Show every column, with one column per milestone")
	return cmd
}
