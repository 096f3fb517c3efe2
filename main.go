package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"

	"github.com/danielhkuo/pollbox/cliparse"
	"github.com/danielhkuo/pollbox/db"
	"github.com/danielhkuo/pollbox/middleware"
	"github.com/danielhkuo/pollbox/polls"
	"github.com/danielhkuo/pollbox/router"
	"github.com/danielhkuo/pollbox/sweeper"
)

func main() {
	var err error

	if err := cliparse.LoadDotEnv(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect and verify
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Periodic retention sweep
	var quartz *cron.Cron
	if cfg.CleanupSchedule != cliparse.ScheduleOff {
		quartz = cron.New(cron.WithLogger(cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo))))
		svc := polls.NewService(dbConn)
		_, err := quartz.AddFunc(cfg.CleanupSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if _, err := sweeper.Run(ctx, svc, sweeper.Options{}); err != nil {
				slog.Error("scheduled sweep failed", "error", err)
			}
		})
		if err != nil {
			slog.Error("invalid cleanup schedule", "schedule", cfg.CleanupSchedule, "error", err)
			os.Exit(1)
		}
		quartz.Start()
		slog.Info("Retention sweep scheduled", "schedule", cfg.CleanupSchedule)
	}

	// Create router
	mux := router.NewRouter(dbConn, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		if quartz != nil {
			<-quartz.Stop().Done()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	// Start server
	color.New(color.FgCyan, color.Bold).Printf("pollbox listening on %s\n", cfg.BaseURL)
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
