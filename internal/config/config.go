// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

// Package config loads Scoreboard configuration.
//
// Configuration Loading Order (Koanf v2, highest priority last):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (CONFIG_PATH, ./config.yaml, /etc/scoreboard/config.yaml)
//  3. Environment Variables: DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_DATABASE, HTTP_PORT, ...
//
// Config is immutable after Load() and safe for concurrent reads.
package config

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// Supported values for DatabaseConfig.Driver.
const (
	// DriverPgx runs queries on a pgxpool.Pool.
	DriverPgx = "pgx"
	// DriverSQL runs queries through database/sql with the pgx stdlib driver.
	DriverSQL = "sql"
)

// DatabaseConfig holds the relational query executor connection parameters.
type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"sslmode"`

	// Driver selects the executor implementation: "pgx" (default) or "sql".
	Driver string `koanf:"driver"`

	MaxConns       int32         `koanf:"max_conns"`
	MinConns       int32         `koanf:"min_conns"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`

	// QueryTimeout bounds a single query. Zero disables the per-query deadline.
	QueryTimeout time.Duration `koanf:"query_timeout"`

	// HealthInterval is how often the background monitor pings the pool.
	// Zero disables the monitor.
	HealthInterval time.Duration `koanf:"health_interval"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker in front of the executor.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`
	// MinRequests is the request count below which the breaker never trips.
	MinRequests uint32 `koanf:"min_requests"`
	// FailureRatio trips the breaker when failures/requests reaches it.
	FailureRatio float64       `koanf:"failure_ratio"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
}

// DSN returns the postgres connection URL. The password is URL-escaped so
// characters like '/', '+' and '@' survive.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	if d.ConnectTimeout > 0 {
		// libpq takes whole seconds and treats 0 as no limit, so round up.
		q.Set("connect_timeout", strconv.Itoa(int(math.Ceil(d.ConnectTimeout.Seconds()))))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json (production) or console (development).
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file, and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
