// Command cleanup-polls runs one retention sweep and prints a report.
//
//	cleanup-polls [--dry-run] [--force-expired]
//
// Connection settings come from DATABASE_URL and DATABASE_TYPE (or a .env
// file). Intended for cron or a systemd timer alongside a server started
// with --cleanup-schedule=off. Once a report is printed the exit status is 0,
// even when the sweep stopped early or some polls failed.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielhkuo/pollbox/cliparse"
	"github.com/danielhkuo/pollbox/db"
	"github.com/danielhkuo/pollbox/polls"
	"github.com/danielhkuo/pollbox/sweeper"
)

func main() {
	if err := cliparse.LoadDotEnv(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	cfg, err := cliparse.ParseCleanupFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := sweeper.Run(ctx, polls.NewService(dbConn), sweeper.Options{
		DryRun:       cfg.DryRun,
		ForceExpired: cfg.ForceExpired,
	})
	if err != nil {
		slog.Error("sweep stopped early", "error", err)
	}
	report.Print(os.Stdout)
}
