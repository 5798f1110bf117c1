// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

// Package database runs the fixed analytics statements against Postgres and
// returns untyped rows for the schema package to validate.
//
// Two executors share one contract: PgxExecutor on a pgxpool.Pool, and
// SQLExecutor on database/sql with the pgx stdlib driver. Both check a
// connection out per query and return it with defer whatever the outcome.
// Open picks one from configuration and optionally wraps it in a circuit
// breaker.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/scoreboard/internal/config"
	"github.com/tomtom215/scoreboard/internal/logging"
	"github.com/tomtom215/scoreboard/internal/metrics"
	"github.com/tomtom215/scoreboard/internal/schema"
)

// Querier runs one SQL statement and returns its rows in result-set order.
// Every error it returns is an *ExecutionError.
type Querier interface {
	Query(ctx context.Context, sql string) ([]schema.RawRow, error)
}

// Executor is a Querier that owns a connection pool.
type Executor interface {
	Querier
	// Ping verifies that a connection can be checked out and used.
	Ping(ctx context.Context) error
	// Close releases the pool. Later queries fail with ErrPoolClosed.
	Close()
}

// Open creates the executor selected by cfg.Driver and verifies it with a
// ping. The breaker wraps it when cfg.Breaker.Enabled.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Executor, error) {
	var (
		exec Executor
		err  error
	)

	switch cfg.Driver {
	case config.DriverPgx, "":
		exec, err = NewPgxExecutor(ctx, cfg)
	case config.DriverSQL:
		exec, err = NewSQLExecutor(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Breaker.Enabled {
		exec = NewBreakerExecutor(exec, cfg.Breaker)
	}

	logging.Info().
		Str("driver", driverLabel(cfg.Driver)).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Bool("breaker", cfg.Breaker.Enabled).
		Msg("Database executor ready")

	return exec, nil
}

func driverLabel(driver string) string {
	if driver == "" {
		return config.DriverPgx
	}
	return driver
}

// withQueryTimeout applies timeout when it is positive.
func withQueryTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}

// observe records the query metrics and logs failures. The query label is the
// endpoint name carried by ctx.
func observe(ctx context.Context, driver string, start time.Time, rows int, err error) {
	label := logging.EndpointFromContext(ctx)
	if label == "" {
		label = "adhoc"
	}
	duration := time.Since(start)
	metrics.RecordDBQuery(driver, label, duration, err)

	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("driver", driver).
			Dur("duration", duration).
			Msg("Query failed")
		return
	}
	logging.Ctx(ctx).Debug().
		Str("driver", driver).
		Int("rows", rows).
		Dur("duration", duration).
		Msg("Query completed")
}
