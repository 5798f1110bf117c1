// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/scoreboard/internal/logging"
)

// ErrPoolClosed is returned by executors used after Close.
var ErrPoolClosed = errors.New("connection pool is closed")

// ExecutionError reports that a statement could not be run to completion:
// connect, acquire, SQL, scan or an open circuit breaker. Error() is the
// underlying message unchanged, so callers can surface it verbatim.
type ExecutionError struct {
	// Op is the step that failed: "acquire", "query", "scan", "rows" or "breaker".
	Op  string
	Err error
}

func (e *ExecutionError) Error() string {
	if e.Err == nil {
		return "query execution failed"
	}
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func execError(op string, err error) error {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return err
	}
	return &ExecutionError{Op: op, Err: err}
}

// IsExecutionError reports whether err came from an executor.
func IsExecutionError(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee)
}

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}
