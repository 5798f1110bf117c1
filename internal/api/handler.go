// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package api

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/tomtom215/scoreboard/internal/database"
	"github.com/tomtom215/scoreboard/internal/logging"
)

// errEndpointPanic replaces the panic value in the response body.
var errEndpointPanic = errors.New("internal server error")

// readyTimeout bounds the readiness ping.
const readyTimeout = 2 * time.Second

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the analytics endpoints over one executor.
type Handler struct {
	querier database.Querier
	pinger  Pinger
}

// NewHandler creates a Handler. pinger may be nil, in which case readiness
// always succeeds.
func NewHandler(querier database.Querier, pinger Pinger) *Handler {
	return &Handler{querier: querier, pinger: pinger}
}

// Endpoint returns the http.HandlerFunc for ep.
func (h *Handler) Endpoint(ep Endpoint) http.HandlerFunc {
	return Serve(ep.Name, ep.Bind(h.querier))
}

// Serve adapts fn to HTTP. The request context carries name for logs and
// metrics, and every request ends in exactly one call to Respond.
func Serve(name string, fn EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.ContextWithEndpoint(r.Context(), name)
		r = r.WithContext(ctx)
		Respond(guard(ctx, w), r, evaluate(ctx, fn))
	}
}

// evaluate runs fn and turns a panic into an executor failure result.
func evaluate(ctx context.Context, fn EndpointFunc) (result Result) {
	defer func() {
		if p := recover(); p != nil {
			logging.Ctx(ctx).Error().
				Interface("panic", p).
				Bytes("stack", debug.Stack()).
				Msg("Endpoint panicked")
			result = Result{Err: errEndpointPanic}
		}
	}()
	return fn(ctx)
}

// HealthLive always reports 200 while the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady reports 200 when the database answers a ping, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
			writeJSON(r.Context(), w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ready"})
}
