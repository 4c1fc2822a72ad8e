// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

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

	"github.com/danielhkuo/dailyq/cliparse"
	"github.com/danielhkuo/dailyq/db"
	"github.com/danielhkuo/dailyq/middleware"
	"github.com/danielhkuo/dailyq/notify"
	"github.com/danielhkuo/dailyq/router"
	"github.com/danielhkuo/dailyq/scheduler"
	"github.com/danielhkuo/dailyq/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	var err error

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	if err := cliparse.InitLogger(cfg.LogLevel); err != nil {
		slog.Error("Error initializing logger", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	s := store.New(dbConn, cfg.StoreTimeout, cfg.StoreAttempts)

	// Push fan-out and the daily question scheduler
	gateway := notify.NewExpoGateway(cfg.PushGatewayURL, cfg.PushTimeout, cfg.PushAttempts)
	defer gateway.Close()
	fanOut := notify.NewFanOut(s, gateway, cfg.PushBatchSize, cfg.PushConcurrency)

	window, err := scheduler.ParseWindow(cfg.PublishWindowStart, cfg.PublishWindowEnd)
	if err != nil {
		slog.Error("invalid publish window", "error", err)
		os.Exit(1)
	}
	jobs := scheduler.NewJobs(s, fanOut, cfg.Location, window, nil)
	runner, err := scheduler.NewRunner(jobs, cfg.SelectSchedule, cfg.CheckSchedule, cfg.JobTimeout)
	if err != nil {
		slog.Error("scheduler setup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runner.Start(ctx)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(router.NewRouter(s, runner, cfg)),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		// Wait for Ctrl-C signal
		<-ctx.Done()
		slog.Info("Shutting down")

		// Let a publish in flight finish its fan-out before closing
		select {
		case <-runner.Stop().Done():
		case <-time.After(shutdownTimeout):
			slog.Warn("scheduler jobs still running at shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "zone", cfg.HomeZone)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
		return
	}
	<-shutdownDone
	slog.Info("Server closed", "error", err)
}
