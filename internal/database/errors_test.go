// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package database

import (
	"errors"
	"fmt"
	"testing"
)

func TestExecutionError(t *testing.T) {
	cause := errors.New("password authentication failed for user \"scores\"")
	err := execError("acquire", cause)

	if err.Error() != cause.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), cause.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if !IsExecutionError(err) {
		t.Error("IsExecutionError() = false")
	}
	if IsExecutionError(cause) {
		t.Error("IsExecutionError(plain error) = true")
	}
}

func TestExecError_DoesNotDoubleWrap(t *testing.T) {
	inner := execError("query", errors.New("syntax error"))
	outer := execError("breaker", fmt.Errorf("wrapped: %w", inner))

	var ee *ExecutionError
	if !errors.As(outer, &ee) {
		t.Fatal("errors.As failed")
	}
	if ee.Op != "query" {
		t.Errorf("Op = %q, want query", ee.Op)
	}
}

func TestExecutionError_NilCause(t *testing.T) {
	err := &ExecutionError{Op: "query"}
	if err.Error() != "query execution failed" {
		t.Errorf("Error() = %q", err.Error())
	}
}
