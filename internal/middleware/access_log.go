// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/scoreboard/internal/logging"
)

// AccessLog logs one line per completed request through the request-scoped
// logger, so request_id and correlation_id are attached when present.
// 5xx responses log at warn, everything else at debug.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		logger := logging.Ctx(r.Context())
		event := logger.Debug()
		if ww.statusCode >= http.StatusInternalServerError {
			event = logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", routePattern(r)).
			Int("status", ww.statusCode).
			Int("bytes", ww.bytes).
			Str("remote_addr", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}
