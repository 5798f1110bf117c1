// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

// Package main is the entry point for the Scoreboard server.
//
// Scoreboard serves read-only player and game score analytics from Postgres
// over HTTP/JSON. Startup order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog, JSON or console
//  3. Database: pgx pool (or database/sql) behind a circuit breaker
//  4. HTTP: Chi router with the analytics endpoints, health and /metrics
//  5. Supervisor tree: pool monitor and HTTP server under suture
//
// # Configuration
//
// Connection settings use the variables existing deployments already set:
//
//	DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_DATABASE
//
// The server listens on HTTP_HOST:HTTP_PORT (default 0.0.0.0:3000).
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server stops
// accepting connections and drains in-flight requests within
// HTTP_SHUTDOWN_TIMEOUT, then the connection pool is closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/scoreboard/internal/api"
	"github.com/tomtom215/scoreboard/internal/config"
	"github.com/tomtom215/scoreboard/internal/database"
	"github.com/tomtom215/scoreboard/internal/logging"
	"github.com/tomtom215/scoreboard/internal/supervisor"
	"github.com/tomtom215/scoreboard/internal/supervisor/services"
)

// startupTimeout bounds opening and pinging the pool.
const startupTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_host", cfg.Database.Host).
		Int("db_port", cfg.Database.Port).
		Str("db_name", cfg.Database.Name).
		Str("db_driver", cfg.Database.Driver).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Scoreboard")
	if cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin; set CORS_ORIGINS to restrict it")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Fatal().Err(err).Msg("Scoreboard stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run owns the connection pool for the life of the process and blocks until
// ctx is canceled.
func run(ctx context.Context, cfg *config.Config) error {
	if err := api.CheckEndpoints(api.Endpoints()); err != nil {
		return fmt.Errorf("invalid route table: %w", err)
	}

	openCtx, cancelOpen := context.WithTimeout(ctx, startupTimeout)
	exec, err := database.Open(openCtx, cfg.Database)
	cancelOpen()
	if err != nil {
		return err
	}
	defer func() {
		exec.Close()
		logging.Info().Msg("Database pool closed")
	}()

	handler := api.NewHandler(exec, exec)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Security)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	if cfg.Database.HealthInterval > 0 {
		tree.AddDataService(services.NewPoolMonitorService(exec, cfg.Database.HealthInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Msg("Starting supervisor tree")
	err = <-tree.ServeBackground(ctx)

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
