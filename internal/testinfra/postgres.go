// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/jackc/pgx/v5"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/tomtom215/scoreboard/internal/config"
)

const (
	// DefaultPostgresImage is the image used unless WithPostgresImage overrides it.
	DefaultPostgresImage = "postgres:16-alpine"

	testDatabase = "scoreboard"
	testUser     = "scoreboard"
	testPassword = "scoreboard"
)

// PostgresContainer is a running Postgres with the scoreboard schema loaded.
type PostgresContainer struct {
	*tcpostgres.PostgresContainer
	// DSN is a postgres:// URL with sslmode=disable.
	DSN string

	host string
	port int
}

// PostgresOption configures the Postgres container.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	image       string
	initScripts []string
}

// WithPostgresImage sets a custom Postgres Docker image.
func WithPostgresImage(image string) PostgresOption {
	return func(c *postgresConfig) {
		c.image = image
	}
}

// WithInitScripts runs extra SQL files after the schema is created.
func WithInitScripts(paths ...string) PostgresOption {
	return func(c *postgresConfig) {
		c.initScripts = append(c.initScripts, paths...)
	}
}

// NewPostgresContainer starts Postgres and loads testdata/postgres/schema.sql.
//
//	pg, err := testinfra.NewPostgresContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, pg)
func NewPostgresContainer(ctx context.Context, opts ...PostgresOption) (*PostgresContainer, error) {
	schemaPath, err := SchemaPath()
	if err != nil {
		return nil, err
	}

	cfg := &postgresConfig{image: DefaultPostgresImage}
	for _, opt := range opts {
		opt(cfg)
	}

	scripts := append([]string{schemaPath}, cfg.initScripts...)

	ctr, err := tcpostgres.Run(
		ctx,
		cfg.image,
		tcpostgres.BasicWaitStrategies(),
		tcpostgres.WithDatabase(testDatabase),
		tcpostgres.WithUsername(testUser),
		tcpostgres.WithPassword(testPassword),
		tcpostgres.WithInitScripts(scripts...),
	)
	if err != nil {
		return nil, fmt.Errorf("create postgres container: %w", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := ctr.MappedPort(ctx, "5432/tcp")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}
	portNum, err := strconv.Atoi(port.Port())
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("parse mapped port %q: %w", port.Port(), err)
	}

	return &PostgresContainer{
		PostgresContainer: ctr,
		DSN:               dsn,
		host:              host,
		port:              portNum,
	}, nil
}

// DatabaseConfig returns executor settings pointing at the container.
func (c *PostgresContainer) DatabaseConfig(driver string) config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     c.host,
		Port:     c.port,
		User:     testUser,
		Password: testPassword,
		Name:     testDatabase,
		SSLMode:  "disable",
		Driver:   driver,
		MaxConns: 4,
	}
}

// Exec runs each statement in order on a fresh connection. Tests use it to
// load fixtures and to reset tables between cases.
func (c *PostgresContainer) Exec(ctx context.Context, statements ...string) error {
	conn, err := pgx.Connect(ctx, c.DSN)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

// Reset empties all tables and restarts their id sequences.
func (c *PostgresContainer) Reset(ctx context.Context) error {
	return c.Exec(ctx, "TRUNCATE scores, games, players RESTART IDENTITY CASCADE")
}

// SchemaPath returns the path of testdata/postgres/schema.sql.
func SchemaPath() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to get caller info")
	}

	// Navigate from internal/testinfra to testdata/postgres
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	return filepath.Join(projectRoot, "testdata", "postgres", "schema.sql"), nil
}
