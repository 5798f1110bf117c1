// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

// Package metrics holds the Prometheus collectors exported on /metrics.
//
// Collectors are registered on the default registry through promauto, so the
// package must be imported once for them to appear:
//   - api_*: request throughput, latency and in-flight count
//   - db_*: query latency and errors per endpoint
//   - row_validation_failures_total and endpoint_outcomes_total: response policy results
//   - circuit_breaker_*: executor breaker state
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of executor queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "query"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of executor query errors",
		},
		[]string{"driver", "query", "error_type"},
	)

	DBPoolAcquiredConns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_pool_acquired_connections",
			Help: "Connections currently checked out of the pool",
		},
	)

	DBUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_up",
			Help: "Whether the last background ping succeeded (1) or failed (0)",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Response Policy Metrics
	RowValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "row_validation_failures_total",
			Help: "Result sets rejected because at least one row broke its schema",
		},
		[]string{"endpoint", "schema"},
	)

	EndpointOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "endpoint_outcomes_total",
			Help: "Responses by outcome kind",
		},
		[]string{"endpoint", "outcome"}, // outcome: "rows", "empty", "invalid", "error"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// Outcome label values for EndpointOutcomes.
const (
	OutcomeRows    = "rows"
	OutcomeEmpty   = "empty"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// maxErrorTypeLen caps the error_type label to keep cardinality bounded.
const maxErrorTypeLen = 50

// RecordDBQuery records a query's latency and, on failure, its error.
func RecordDBQuery(driver, query string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(driver, query).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > maxErrorTypeLen {
			errorType = errorType[:maxErrorTypeLen]
		}
		DBQueryErrors.WithLabelValues(driver, query, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a rejected request for endpoint.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordOutcome counts one response for endpoint. Invalid outcomes also bump
// RowValidationFailures under the schema that rejected them.
func RecordOutcome(endpoint, outcome, schema string) {
	EndpointOutcomes.WithLabelValues(endpoint, outcome).Inc()
	if outcome == OutcomeInvalid {
		RowValidationFailures.WithLabelValues(endpoint, schema).Inc()
	}
}
