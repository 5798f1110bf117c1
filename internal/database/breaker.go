// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package database

import (
	"context"
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/scoreboard/internal/config"
	"github.com/tomtom215/scoreboard/internal/logging"
	"github.com/tomtom215/scoreboard/internal/metrics"
	"github.com/tomtom215/scoreboard/internal/schema"
)

// BreakerName labels the executor breaker in metrics and logs.
const BreakerName = "db-executor"

// BreakerExecutor wraps an Executor with a circuit breaker. While the breaker
// is open, queries fail fast with an *ExecutionError whose message is the
// breaker's ("circuit breaker is open").
//
// Caller cancellations are not counted as failures.
type BreakerExecutor struct {
	next Executor
	cb   *gobreaker.CircuitBreaker[[]schema.RawRow]
}

// NewBreakerExecutor wraps next using cfg.
func NewBreakerExecutor(next Executor, cfg config.BreakerConfig) *BreakerExecutor {
	metrics.CircuitBreakerState.WithLabelValues(BreakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(0)

	minRequests := cfg.MinRequests
	ratio := cfg.FailureRatio

	cb := gobreaker.NewCircuitBreaker[[]schema.RawRow](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: 3,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= ratio
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening executor circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("from", from.String()).Str("to", to.String()).Msg("Executor circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerExecutor{next: next, cb: cb}
}

// Query runs the wrapped Query under the breaker.
func (b *BreakerExecutor) Query(ctx context.Context, sql string) ([]schema.RawRow, error) {
	rows, err := b.cb.Execute(func() ([]schema.RawRow, error) {
		return b.next.Query(ctx, sql)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "rejected").Inc()
			logging.Ctx(ctx).Warn().Err(err).Msg("Query rejected by circuit breaker")
			return nil, execError("breaker", err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(float64(b.cb.Counts().ConsecutiveFailures))
		return nil, execError("query", err)
	}

	metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(0)
	return rows, nil
}

// State returns the breaker state.
func (b *BreakerExecutor) State() gobreaker.State {
	return b.cb.State()
}

// Ping bypasses the breaker so readiness reflects the database itself.
func (b *BreakerExecutor) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

// Close closes the wrapped executor.
func (b *BreakerExecutor) Close() {
	b.next.Close()
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
