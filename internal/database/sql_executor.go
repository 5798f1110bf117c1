// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/tomtom215/scoreboard/internal/config"
	"github.com/tomtom215/scoreboard/internal/metrics"
	"github.com/tomtom215/scoreboard/internal/schema"
)

// SQLExecutor runs queries through database/sql.
type SQLExecutor struct {
	db           *sql.DB
	queryTimeout time.Duration
	closed       atomic.Bool
}

// NewSQLExecutor opens a database/sql pool with the pgx driver and pings it.
func NewSQLExecutor(ctx context.Context, cfg config.DatabaseConfig) (*SQLExecutor, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(int(cfg.MaxConns))
	}
	db.SetMaxIdleConns(int(max(cfg.MinConns, 2)))

	e := NewSQLExecutorFromDB(db, cfg.QueryTimeout)
	if err := e.Ping(ctx); err != nil {
		closeWithLog(db, "sql.DB")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return e, nil
}

// NewSQLExecutorFromDB wraps an existing *sql.DB and takes ownership of it.
func NewSQLExecutorFromDB(db *sql.DB, queryTimeout time.Duration) *SQLExecutor {
	return &SQLExecutor{db: db, queryTimeout: queryTimeout}
}

// Query checks out a dedicated connection, runs sql and returns every row.
// NUMERIC columns are scanned into pgtype.Numeric so they reach the schema
// as numbers rather than text.
func (e *SQLExecutor) Query(ctx context.Context, query string) (rows []schema.RawRow, err error) {
	start := time.Now()
	defer func() { observe(ctx, config.DriverSQL, start, len(rows), err) }()

	if e.closed.Load() {
		return nil, execError("acquire", ErrPoolClosed)
	}

	ctx, cancel := withQueryTimeout(ctx, e.queryTimeout)
	defer cancel()

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, execError("acquire", translateSQLError(err))
	}
	defer func() {
		closeWithLog(conn, "sql.Conn")
		e.recordInUse()
	}()
	e.recordInUse()

	result, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, execError("query", err)
	}
	defer closeWithLog(result, "sql.Rows")

	columns, err := result.Columns()
	if err != nil {
		return nil, execError("scan", err)
	}
	numeric := numericColumns(result, len(columns))

	rows = make([]schema.RawRow, 0)
	for result.Next() {
		values, err := scanRow(result, numeric)
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

// recordInUse samples the checked-out connection count.
func (e *SQLExecutor) recordInUse() {
	metrics.DBPoolAcquiredConns.Set(float64(e.db.Stats().InUse))
}

// numericColumns flags the NUMERIC/DECIMAL columns of a result set. Drivers
// that do not report types leave every flag false.
func numericColumns(result *sql.Rows, n int) []bool {
	flags := make([]bool, n)
	types, err := result.ColumnTypes()
	if err != nil {
		return flags
	}
	for i, ct := range types {
		if i >= n {
			break
		}
		switch strings.ToUpper(ct.DatabaseTypeName()) {
		case "NUMERIC", "DECIMAL":
			flags[i] = true
		}
	}
	return flags
}

func scanRow(result *sql.Rows, numeric []bool) ([]any, error) {
	values := make([]any, len(numeric))
	numerics := make([]pgtype.Numeric, len(numeric))
	dest := make([]any, len(numeric))
	for i := range dest {
		if numeric[i] {
			dest[i] = &numerics[i]
		} else {
			dest[i] = &values[i]
		}
	}

	if err := result.Scan(dest...); err != nil {
		return nil, err
	}
	for i, isNumeric := range numeric {
		if isNumeric {
			values[i] = numerics[i]
		}
	}
	return values, nil
}

// translateSQLError maps database/sql's closed-pool error to ErrPoolClosed.
func translateSQLError(err error) error {
	if errors.Is(err, sql.ErrConnDone) || (err != nil && err.Error() == "sql: database is closed") {
		return fmt.Errorf("%w: %w", ErrPoolClosed, err)
	}
	return err
}

// Ping checks that a connection can be used.
func (e *SQLExecutor) Ping(ctx context.Context) error {
	if e.closed.Load() {
		return execError("acquire", ErrPoolClosed)
	}
	if err := e.db.PingContext(ctx); err != nil {
		return execError("ping", translateSQLError(err))
	}
	return nil
}

// Close closes the pool. It is safe to call more than once.
func (e *SQLExecutor) Close() {
	if e.closed.CompareAndSwap(false, true) {
		closeWithLog(e.db, "sql.DB")
	}
}
