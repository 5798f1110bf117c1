// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/scoreboard/internal/logging"
	"github.com/tomtom215/scoreboard/internal/metrics"
	"github.com/tomtom215/scoreboard/internal/schema"
)

// Response bodies
const (
	msgInvalidData = "Invalid data format"
	msgNoData      = "No data found."
)

// Result is what an endpoint computed: either an executor error or a
// validation outcome.
type Result struct {
	Outcome schema.Outcome
	Err     error
}

type validationErrorBody struct {
	Error   string                    `json:"error"`
	Details *schema.ValidationFailure `json:"details"`
}

type messageBody struct {
	Message string `json:"message"`
}

// Respond writes the single terminal response for result:
//
//	executor error      500 text/plain, the error message
//	validation failure  500 {"error":"Invalid data format","details":...}
//	no rows             404 {"message":"No data found."}
//	rows                200 JSON array
//
// A second call for the same writer is rejected and logged.
func Respond(w http.ResponseWriter, r *http.Request, result Result) {
	ctx := r.Context()
	gw := guard(ctx, w)
	if !gw.claim() {
		logging.Ctx(ctx).Error().Msg("Duplicate response suppressed")
		return
	}

	endpoint := logging.EndpointFromContext(ctx)
	out := gw.ResponseWriter

	switch {
	case result.Err != nil:
		logging.Ctx(ctx).Error().Err(result.Err).Msg("Query execution failed")
		metrics.RecordOutcome(endpoint, metrics.OutcomeError, "")
		writeText(ctx, out, http.StatusInternalServerError, result.Err.Error())

	case result.Outcome.Failure != nil:
		failure := result.Outcome.Failure
		logging.Ctx(ctx).Warn().
			Str("schema", failure.Schema).
			Int("invalid_rows", len(failure.Rows)).
			Int("total_rows", failure.TotalRows).
			Msg("Result rows failed validation")
		metrics.RecordOutcome(endpoint, metrics.OutcomeInvalid, failure.Schema)
		writeJSON(ctx, out, http.StatusInternalServerError, validationErrorBody{Error: msgInvalidData, Details: failure})

	case result.Outcome.Empty():
		metrics.RecordOutcome(endpoint, metrics.OutcomeEmpty, "")
		writeJSON(ctx, out, http.StatusNotFound, messageBody{Message: msgNoData})

	default:
		rows := result.Outcome.Rows
		metrics.RecordOutcome(endpoint, metrics.OutcomeRows, "")
		out.Header().Set("X-Row-Count", strconv.Itoa(len(rows)))
		writeJSON(ctx, out, http.StatusOK, rows)
	}
}

func writeText(ctx context.Context, w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to write text response")
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to marshal JSON response")
		writeText(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to write JSON response")
	}
}

// Guarded writer states
const (
	writerOpen = iota
	writerExternal
	writerResponded
)

// errResponseWritten is returned by writes made after Respond finished.
var errResponseWritten = errors.New("response already written")

// guardedWriter lets exactly one party produce the response. Respond claims
// it before writing. Direct writes made after that are dropped, and a direct
// write made before it makes Respond back off.
type guardedWriter struct {
	http.ResponseWriter
	ctx   context.Context
	mu    sync.Mutex
	state int
}

func guard(ctx context.Context, w http.ResponseWriter) *guardedWriter {
	if gw, ok := w.(*guardedWriter); ok {
		return gw
	}
	return &guardedWriter{ResponseWriter: w, ctx: ctx}
}

// claim reserves the response for Respond. It returns false if anything was
// already written.
func (g *guardedWriter) claim() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != writerOpen {
		return false
	}
	g.state = writerResponded
	return true
}

// passThrough reports whether a direct write may proceed.
func (g *guardedWriter) passThrough() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == writerResponded {
		return false
	}
	g.state = writerExternal
	return true
}

func (g *guardedWriter) WriteHeader(code int) {
	if !g.passThrough() {
		logging.Ctx(g.ctx).Error().Int("status", code).Msg("Duplicate response header suppressed")
		return
	}
	g.ResponseWriter.WriteHeader(code)
}

func (g *guardedWriter) Write(b []byte) (int, error) {
	if !g.passThrough() {
		logging.Ctx(g.ctx).Error().Int("bytes", len(b)).Msg("Duplicate response body suppressed")
		return 0, errResponseWritten
	}
	return g.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (g *guardedWriter) Unwrap() http.ResponseWriter {
	return g.ResponseWriter
}
