// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskHive Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskhive/taskhive/internal/auth"
	authmongo "github.com/taskhive/taskhive/internal/auth/mongo"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/logging"
	"github.com/taskhive/taskhive/internal/observability"
	"github.com/taskhive/taskhive/internal/session"
	"github.com/taskhive/taskhive/internal/store"
	"github.com/taskhive/taskhive/internal/task"
	taskpostgres "github.com/taskhive/taskhive/internal/task/postgres"
	"github.com/taskhive/taskhive/internal/web"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the TaskHive web server",
		Long: `Start the web server. Connects to MongoDB for accounts and
PostgreSQL for tasks, applies pending schema migrations, and serves the
application until interrupted.`,
		RunE: runServe,
	}

	cmd.Flags().String("http-addr", config.DefaultHTTPAddr, "HTTP listen address")
	cmd.Flags().String("metrics-addr", "", "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "log format (json or text)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("taskhive", version, cfg.LogFormat)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	slog.Info("starting taskhive",
		"http_addr", cfg.HTTPAddr,
		"log_format", cfg.LogFormat,
	)

	// Datastores. Startup is the only place connection failures retry.
	mongoClient, err := store.OpenMongo(ctx, cfg.MongoURL)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer disconnectCancel()
		if disconnectErr := mongoClient.Disconnect(disconnectCtx); disconnectErr != nil {
			slog.Warn("error disconnecting mongo client", "error", disconnectErr)
		}
	}()
	slog.Info("connected to mongodb")

	pool, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	slog.Info("connected to postgres")

	// Schema setup on both stores before serving.
	migrator, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	migrateErr := migrator.Up()
	if closeErr := migrator.Close(); closeErr != nil {
		slog.Warn("error closing migrator", "error", closeErr)
	}
	if migrateErr != nil {
		return migrateErr
	}
	slog.Info("postgres schema up to date")

	accountRepo := authmongo.NewAccountRepository(mongoClient.Database(cfg.MongoDatabase))
	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	slog.Info("mongo indexes ensured")

	// Services.
	authService, err := auth.NewService(accountRepo, auth.NewBcryptHasher(cfg.BcryptCost))
	if err != nil {
		return err
	}
	taskService, err := task.NewService(taskpostgres.NewTaskRepository(pool))
	if err != nil {
		return err
	}
	carrier, err := session.NewCarrier([]byte(cfg.SessionSecret), cfg.SessionDuration, cfg.SessionActiveWindow)
	if err != nil {
		return err
	}

	// Observability server is optional.
	var obsServer *observability.Server
	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool { return pool.Ping(ctx) == nil })
		metrics = obsServer.Metrics()
	}

	handlers, err := web.NewHandlers(authService, taskService, carrier, metrics)
	if err != nil {
		return err
	}
	webServer := web.NewServer(cfg.HTTPAddr, handlers.Routes())

	webErrCh, err := webServer.Start()
	if err != nil {
		return err
	}
	go monitorServerErrors(ctx, cancel, webErrCh, "web")

	if obsServer != nil {
		obsErrCh, obsErr := obsServer.Start()
		if obsErr != nil {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stopCancel()
			if stopErr := webServer.Stop(stopCtx); stopErr != nil {
				slog.Warn("failed to stop web server during cleanup", "error", stopErr)
			}
			return obsErr
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("TaskHive started on " + webServer.Addr())
	slog.Info("taskhive ready", "addr", webServer.Addr())

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := webServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping web server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// monitorServerErrors watches a server's error channel and cancels the
// context on error so a failed listener takes the whole process through
// graceful shutdown. It exits when an error arrives, the channel is
// closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
