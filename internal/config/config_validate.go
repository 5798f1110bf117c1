// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/scoreboard/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateBreaker(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateDatabase validates the executor connection parameters
func (c *Config) validateDatabase() error {
	d := c.Database
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port < 1 || d.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_DATABASE is required")
	}
	switch d.Driver {
	case DriverPgx, DriverSQL:
	default:
		return fmt.Errorf("DB_DRIVER must be one of: %s, %s", DriverPgx, DriverSQL)
	}
	if d.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if d.ConnectTimeout < 0 {
		return fmt.Errorf("DB_CONNECT_TIMEOUT must not be negative")
	}
	if d.QueryTimeout < 0 {
		return fmt.Errorf("DB_QUERY_TIMEOUT must not be negative")
	}
	if d.HealthInterval < 0 {
		return fmt.Errorf("DB_HEALTH_INTERVAL must not be negative")
	}
	return nil
}

// validateBreaker validates circuit breaker settings (only if enabled)
func (c *Config) validateBreaker() error {
	b := c.Database.Breaker
	if !b.Enabled {
		return nil
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("DB_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("DB_BREAKER_TIMEOUT must be positive")
	}
	if b.Interval < 0 {
		return fmt.Errorf("DB_BREAKER_INTERVAL must not be negative")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateSecurity validates CORS and rate limiting bounds
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
}

// HasWildcardCORS reports whether any origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
