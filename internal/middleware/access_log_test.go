// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/scoreboard/internal/logging"
)

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	orig := logging.Logger()
	origLevel := zerolog.GlobalLevel()
	logging.SetLogger(logging.NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		logging.SetLogger(orig)
		zerolog.SetGlobalLevel(origLevel)
	})

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success logs at debug", http.StatusOK, `"level":"debug"`},
		{"not found logs at debug", http.StatusNotFound, `"level":"debug"`},
		{"server error logs at warn", http.StatusInternalServerError, `"level":"warn"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			handler := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest(http.MethodGet, "/top-players", nil)
			req = req.WithContext(logging.ContextWithRequestID(req.Context(), "req-1"))
			handler.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("log = %s, want level %s", out, tt.wantLevel)
			}
			if !strings.Contains(out, `"request_id":"req-1"`) {
				t.Errorf("log = %s, want request_id", out)
			}
			if !strings.Contains(out, `"path":"/top-players"`) {
				t.Errorf("log = %s, want path", out)
			}
		})
	}
}
