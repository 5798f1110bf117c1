// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	if id := GenerateCorrelationID(); len(id) != 8 {
		t.Errorf("expected correlation ID length 8, got %d (%q)", len(id), id)
	}
	if id := GenerateRequestID(); len(id) != 36 {
		t.Errorf("expected request ID length 36, got %d (%q)", len(id), id)
	}
	if GenerateRequestID() == GenerateRequestID() {
		t.Error("expected unique request IDs")
	}
}

func TestContextValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || CorrelationIDFromContext(ctx) != "" || EndpointFromContext(ctx) != "" {
		t.Fatal("expected empty values on a bare context")
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	ctx = ContextWithEndpoint(ctx, "top-players")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q, want req-1", got)
	}
	if got := CorrelationIDFromContext(ctx); got != "corr-1" {
		t.Errorf("CorrelationIDFromContext = %q, want corr-1", got)
	}
	if got := EndpointFromContext(ctx); got != "top-players" {
		t.Errorf("EndpointFromContext = %q, want top-players", got)
	}
}

func TestContextWithNewCorrelationID(t *testing.T) {
	t.Parallel()

	ctx := ContextWithNewCorrelationID(context.Background())
	if CorrelationIDFromContext(ctx) == "" {
		t.Error("expected a generated correlation ID")
	}
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	defer Init(DefaultConfig())
	SetLogger(NewTestLogger(&buf))

	ctx := ContextWithRequestID(context.Background(), "req-42")
	ctx = ContextWithCorrelationID(ctx, "abcd1234")
	ctx = ContextWithEndpoint(ctx, "recent-players")

	Ctx(ctx).Info().Msg("with context")

	output := buf.String()
	for _, want := range []string{`"request_id":"req-42"`, `"correlation_id":"abcd1234"`, `"endpoint":"recent-players"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestCtx_NoValues(t *testing.T) {
	var buf bytes.Buffer
	defer Init(DefaultConfig())
	SetLogger(NewTestLogger(&buf))

	Ctx(context.Background()).Info().Msg("bare")

	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("expected no request_id field: %s", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	defer Init(DefaultConfig())
	SetLogger(NewTestLogger(&buf))

	logger := WithComponent("database")
	logger.Info().Msg("pool opened")

	if !strings.Contains(buf.String(), `"component":"database"`) {
		t.Errorf("expected component field: %s", buf.String())
	}
}
