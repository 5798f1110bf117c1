// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomtom215/scoreboard/internal/config"
	"github.com/tomtom215/scoreboard/internal/metrics"
	"github.com/tomtom215/scoreboard/internal/schema"
)

// PgxExecutor runs queries on a pgxpool.Pool.
type PgxExecutor struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
	closed       atomic.Bool
}

// NewPgxExecutor creates the pool described by cfg and pings it.
func NewPgxExecutor(ctx context.Context, cfg config.DatabaseConfig) (*PgxExecutor, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = cfg.MinConns
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	e := NewPgxExecutorFromPool(pool, cfg.QueryTimeout)
	if err := e.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return e, nil
}

// NewPgxExecutorFromPool wraps an existing pool. The executor takes ownership
// and closes the pool on Close.
func NewPgxExecutorFromPool(pool *pgxpool.Pool, queryTimeout time.Duration) *PgxExecutor {
	return &PgxExecutor{pool: pool, queryTimeout: queryTimeout}
}

// Query acquires a connection, runs sql and returns every row with its
// column names in result-set order.
func (e *PgxExecutor) Query(ctx context.Context, sql string) (rows []schema.RawRow, err error) {
	start := time.Now()
	defer func() { observe(ctx, config.DriverPgx, start, len(rows), err) }()

	if e.closed.Load() {
		return nil, execError("acquire", ErrPoolClosed)
	}

	ctx, cancel := withQueryTimeout(ctx, e.queryTimeout)
	defer cancel()

	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, execError("acquire", err)
	}
	defer func() {
		conn.Release()
		e.recordAcquired()
	}()
	e.recordAcquired()

	result, err := conn.Query(ctx, sql)
	if err != nil {
		return nil, execError("query", err)
	}
	defer result.Close()

	fields := result.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	rows = make([]schema.RawRow, 0)
	for result.Next() {
		values, err := result.Values()
		if err != nil {
			return nil, execError("scan", err)
		}
		rows = append(rows, schema.RawRow{Columns: columns, Values: values})
	}
	if err := result.Err(); err != nil {
		return nil, execError("rows", err)
	}
	return rows, nil
}

// recordAcquired samples the checked-out connection count.
func (e *PgxExecutor) recordAcquired() {
	metrics.DBPoolAcquiredConns.Set(float64(e.pool.Stat().AcquiredConns()))
}

// Ping acquires a connection and pings the server.
func (e *PgxExecutor) Ping(ctx context.Context) error {
	if e.closed.Load() {
		return execError("acquire", ErrPoolClosed)
	}
	if err := e.pool.Ping(ctx); err != nil {
		return execError("ping", err)
	}
	return nil
}

// Close closes the pool. It is safe to call more than once.
func (e *PgxExecutor) Close() {
	if e.closed.CompareAndSwap(false, true) {
		e.pool.Close()
	}
}
