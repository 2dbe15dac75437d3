package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexanderramin/roadmap/internal/chart"
	"github.com/alexanderramin/roadmap/internal/config"
	"github.com/alexanderramin/roadmap/internal/schedule"
	"github.com/alexanderramin/roadmap/internal/service"
)

// SnapshotOpener opens the snapshot store. The returned func closes it.
type SnapshotOpener func(cfg *config.Config, obs service.UseCaseObserver) (service.SnapshotService, func() error, error)

// App holds the services and settings shared by CLI commands. Services left
// nil are built from the loaded configuration when a command runs.
type App struct {
	Render    service.RenderService
	Table     service.TableService
	Snapshots service.SnapshotService

	// OpenSnapshots is used when Snapshots is nil. Only snapshot commands
	// touch the store.
	OpenSnapshots SnapshotOpener

	// IsInteractive reports whether stdin is a terminal, enabling prompts.
	IsInteractive func() bool

	Viper  *viper.Viper
	Config *config.Config
	Logger *slog.Logger
	Now    func() time.Time

	closeSnapshots func() error
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"prefix":     "output.prefix",
	"png":        "output.png",
	"start-year": "start_year",
	"axis":       "chart.axis",
	"debounce":   "watch.debounce_ms",
	"db":         "db_path",
}

// NewRootCmd creates the top-level "roadmap" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "roadmap",
		Short: "Render milestone definitions as an interactive Gantt chart",
		Long: `roadmap reads milestone definition files from one or more vendor
directories, checks their dependencies and draws them as an SVG Gantt
chart with hover tooltips.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd, configPath)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ./roadmap.yaml or $XDG_CONFIG_HOME/roadmap/roadmap.yaml)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text or json")

	root.AddCommand(
		newRenderCmd(app),
		newTableCmd(app),
		newNewCmd(app),
		newSnapshotCmd(app, &configPath),
	)
	return root
}

// setup loads configuration for cmd and builds any services not already
// provided.
func (a *App) setup(cmd *cobra.Command, configPath string) error {
	if a.Viper == nil {
		a.Viper = config.New()
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	if err := config.ReadFile(a.Viper, configPath); err != nil {
		return err
	}
	if err := config.BindFlags(a.Viper, cmd.Flags(), flagKeys); err != nil {
		return err
	}
	cfg, err := config.Load(a.Viper)
	if err != nil {
		return err
	}
	a.Config = cfg
	a.Logger = cfg.Log.NewLogger(cmd.ErrOrStderr())

	obs := a.observer()
	if a.Render == nil {
		a.Render = service.NewRenderService(cmd.ErrOrStderr(), obs)
	}
	if a.Table == nil {
		a.Table = service.NewTableService(cmd.ErrOrStderr(), obs)
	}
	return nil
}

func (a *App) observer() service.UseCaseObserver {
	return service.NewLogUseCaseObserver(a.Logger.With("component", "service"))
}

func (a *App) layout() schedule.Layout {
	return schedule.Layout{
		StartYear:         a.Config.StartYear,
		UnscheduledOffset: a.Config.UnscheduledOffset,
		Palette:           a.Config.Chart.Palette,
	}
}

func (a *App) chartOptions() chart.Options {
	c := a.Config.Chart
	return chart.Options{
		Scale:        c.Scale,
		Margin:       c.Margin,
		FontSize:     c.FontSize,
		TooltipWidth: c.TooltipWidth,
		Axis:         chart.AxisStyle(c.Axis),
		Title:        c.Title,
	}
}

func (a *App) openSnapshots() error {
	if a.Snapshots != nil {
		return nil
	}
	if a.OpenSnapshots == nil {
		return fmt.Errorf("snapshot store is not available")
	}
	svc, closeFn, err := a.OpenSnapshots(a.Config, a.observer())
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	a.Snapshots = svc
	a.closeSnapshots = closeFn
	return nil
}
