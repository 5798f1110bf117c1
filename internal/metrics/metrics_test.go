// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		err       error
		wantType  string
		wantError bool
	}{
		{name: "success", query: "top-players"},
		{name: "short error", query: "popular-genres", err: errors.New("connection refused"), wantType: "connection refused", wantError: true},
		{
			name:      "long error truncated to 50 chars",
			query:     "recent-players",
			err:       errors.New(strings.Repeat("x", 80)),
			wantType:  strings.Repeat("x", 50),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before float64
			if tt.wantError {
				before = testutil.ToFloat64(DBQueryErrors.WithLabelValues("pgx", tt.query, tt.wantType))
			}

			RecordDBQuery("pgx", tt.query, 10*time.Millisecond, tt.err)

			if tt.wantError {
				after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("pgx", tt.query, tt.wantType))
				if after-before != 1 {
					t.Errorf("db_query_errors_total delta = %v, want 1", after-before)
				}
			}
		})
	}
}

func TestRecordAPIRequest(t *testing.T) {
	c := APIRequestsTotal.WithLabelValues("GET", "/top-players", "200")
	before := testutil.ToFloat64(c)

	RecordAPIRequest("GET", "/top-players", "200", 5*time.Millisecond)

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("api_active_requests = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v", got, before)
	}
}

func TestRecordOutcome(t *testing.T) {
	t.Run("rows does not touch validation counter", func(t *testing.T) {
		failures := RowValidationFailures.WithLabelValues("top-players", "TopPlayer")
		before := testutil.ToFloat64(failures)
		outcomes := EndpointOutcomes.WithLabelValues("top-players", OutcomeRows)
		beforeOutcomes := testutil.ToFloat64(outcomes)

		RecordOutcome("top-players", OutcomeRows, "TopPlayer")

		if got := testutil.ToFloat64(outcomes) - beforeOutcomes; got != 1 {
			t.Errorf("endpoint_outcomes_total delta = %v, want 1", got)
		}
		if got := testutil.ToFloat64(failures) - before; got != 0 {
			t.Errorf("row_validation_failures_total delta = %v, want 0", got)
		}
	})

	t.Run("invalid bumps validation counter", func(t *testing.T) {
		failures := RowValidationFailures.WithLabelValues("popular-genres", "PopularGenre")
		before := testutil.ToFloat64(failures)

		RecordOutcome("popular-genres", OutcomeInvalid, "PopularGenre")

		if got := testutil.ToFloat64(failures) - before; got != 1 {
			t.Errorf("row_validation_failures_total delta = %v, want 1", got)
		}
	})
}

func TestRecordRateLimitHit(t *testing.T) {
	c := APIRateLimitHits.WithLabelValues("/inactive-players")
	before := testutil.ToFloat64(c)

	RecordRateLimitHit("/inactive-players")

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("api_rate_limit_hits_total delta = %v, want 1", got)
	}
}
