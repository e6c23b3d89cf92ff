// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/rosterd/rosterd/internal/account"
	accountpg "github.com/rosterd/rosterd/internal/account/postgres"
	"github.com/rosterd/rosterd/internal/config"
	"github.com/rosterd/rosterd/internal/httpapi"
	"github.com/rosterd/rosterd/internal/logging"
	"github.com/rosterd/rosterd/internal/observability"
	"github.com/rosterd/rosterd/internal/store"
	"github.com/rosterd/rosterd/internal/xdg"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the account service",
		Long: `Start the HTTP API and observability servers, connecting to
PostgreSQL and optionally running pending migrations first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configFile
			if path == "" {
				path = xdg.DefaultConfigFile()
			}
			cfg, err := config.Load(path, cmd.Flags())
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	config.Flags(cmd.Flags())

	return cmd
}

// runServeWithDeps starts the service with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}

	if deps.PoolOpener == nil {
		deps.PoolOpener = func(ctx context.Context, url string) (*pgxpool.Pool, error) {
			return store.Open(ctx, url)
		}
	}
	if deps.Migrator == nil {
		deps.Migrator = runMigrations
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	if deps.HTTPServerFactory == nil {
		deps.HTTPServerFactory = func(addr string, handler http.Handler) (HTTPServer, error) {
			return httpapi.NewServer(addr, handler)
		}
	}

	if err := cfg.Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logging.SetDefault("rosterd", version, cfg.Log.Format)

	slog.Info("starting rosterd",
		"addr", cfg.Server.Addr,
		"log_format", cfg.Log.Format,
	)

	if cfg.Database.AutoMigrate {
		slog.Info("running migrations")
		if err := deps.Migrator(cfg.Database.URL); err != nil {
			return oops.Code("MIGRATION_FAILED").Wrap(err)
		}
	}

	pool, err := deps.PoolOpener(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	defer pool.Close()

	slog.Info("connected to database")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server first so readiness reflects API startup
	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	var apiReady atomic.Bool
	if cfg.Server.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Server.MetricsAddr, apiReady.Load)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		metrics = obsServer.Metrics()
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	router, err := buildRouter(pool, metrics)
	if err != nil {
		return err
	}

	apiServer, err := deps.HTTPServerFactory(cfg.Server.Addr, router)
	if err != nil {
		return err
	}
	apiErrChan, err := apiServer.Start()
	if err != nil {
		return oops.Code("HTTP_START_FAILED").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "http-api")
	apiReady.Store(true)

	cmd.Println("rosterd started")
	slog.Info("rosterd ready", "addr", apiServer.Addr())

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping http server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// buildRouter wires repositories, services and handlers onto a router.
func buildRouter(pool *pgxpool.Pool, metrics *observability.Metrics) (http.Handler, error) {
	userRepo := accountpg.NewUserRepository(pool)
	sessionRepo := accountpg.NewSessionRepository(pool)

	sessionService, err := account.NewSessionService(sessionRepo)
	if err != nil {
		return nil, err
	}
	authService, err := account.NewAuthService(userRepo, sessionService)
	if err != nil {
		return nil, err
	}
	userService, err := account.NewUserService(userRepo)
	if err != nil {
		return nil, err
	}

	return httpapi.NewRouter(httpapi.Services{
		Auth:         authService,
		Users:        userService,
		Sessions:     sessionService,
		SessionStore: sessionRepo,
	}, metrics)
}

// runMigrations applies all pending migrations for the database URL.
func runMigrations(url string) error {
	migrator, err := store.NewMigrator(url)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Debug("error closing migrator", "error", closeErr)
		}
	}()
	return migrator.Up()
}

// monitorServerErrors monitors a server's error channel and cancels the
// context on error so a failed listener shuts the whole process down.
// It exits when an error arrives, the channel closes, or the context is
// cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
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
		// Context cancelled, exit monitoring
	}
}
