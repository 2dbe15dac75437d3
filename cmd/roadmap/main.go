package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/roadmap/internal/cli"
	"github.com/alexanderramin/roadmap/internal/config"
	"github.com/alexanderramin/roadmap/internal/db"
	"github.com/alexanderramin/roadmap/internal/repository"
	"github.com/alexanderramin/roadmap/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		OpenSnapshots: openSnapshots,
	}

	// Detect interactive terminal for the scaffolding wizard.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

// openSnapshots opens the snapshot database only for snapshot commands, so
// rendering never creates it.
func openSnapshots(cfg *config.Config, obs service.UseCaseObserver) (service.SnapshotService, func() error, error) {
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	snapshotRepo := repository.NewSQLiteSnapshotRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	svc := service.NewSnapshotService(snapshotRepo, uow, os.Stderr, obs)
	return svc, database.Close, nil
}
