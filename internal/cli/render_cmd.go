package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/alexanderramin/roadmap/internal/schedule"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/alexanderramin/roadmap/internal/watch"
)

func newRenderCmd(app *App) *cobra.Command {
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "render DIR...",
		Short: "Draw the milestones found in DIR... as <prefix>.svg",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.RenderRequest{
				Dirs:   args,
				Prefix: app.Config.Output.Prefix,
				Layout: app.layout(),
				Chart:  app.chartOptions(),
				PNG:    app.Config.Output.PNG,
			}
			render := func(ctx context.Context) error {
				res, err := app.Render.Render(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRendered(
					res.SVGPath, res.PNGPath, res.Milestones, res.Dependencies, len(res.Issues)))
				return nil
			}

			if !watchMode {
				return render(cmd.Context())
			}

			// Failures are logged and watching continues.
			if err := render(cmd.Context()); err != nil {
				app.Logger.Error("render failed", "error", err)
			}
			w, err := watch.New(args, app.Config.Watch.Debounce(), render, app.Logger)
			if err != nil {
				return err
			}
			defer w.Close()
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().String("prefix", "milestones", "Output path without extension")
	cmd.Flags().Int("start-year", schedule.DefaultStartYear, "Year whose first quarter is Q0")
	cmd.Flags().Bool("png", false, "Also write a <prefix>.png preview")
	cmd.Flags().String("axis", "relative", "X axis labels: relative (Q0, Q1, ...) or calendar (2017 Q1, ...)")
	cmd.Flags().BoolVar(&watchMode, "watch", false, "Re-render whenever a definition file changes")
	cmd.Flags().Int("debounce", 500, "Watch debounce in milliseconds")

	return cmd
}
