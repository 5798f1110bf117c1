// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package services

import (
	"context"
	"time"

	"github.com/tomtom215/scoreboard/internal/logging"
	"github.com/tomtom215/scoreboard/internal/metrics"
)

// Pinger is implemented by database executors.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolMonitorService pings the database on an interval, exports the result
// as db_up and logs each change between reachable and unreachable.
type PoolMonitorService struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	name     string

	// up is the last observed state; nil until the first ping.
	up *bool
}

// NewPoolMonitorService creates a monitor. A non-positive interval means 15s.
// Each ping is bounded by the smaller of the interval and 5s.
func NewPoolMonitorService(pinger Pinger, interval time.Duration) *PoolMonitorService {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &PoolMonitorService{
		pinger:   pinger,
		interval: interval,
		timeout:  min(interval, 5*time.Second),
		name:     "pool-monitor",
	}
}

// Serve implements suture.Service. It pings once immediately, then on every
// tick until ctx is canceled.
func (s *PoolMonitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *PoolMonitorService) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.pinger.Ping(pingCtx)
	if ctx.Err() != nil {
		return
	}

	up := err == nil
	if up {
		metrics.DBUp.Set(1)
	} else {
		metrics.DBUp.Set(0)
	}

	changed := s.up == nil || *s.up != up
	s.up = &up
	if !changed {
		return
	}
	if up {
		logging.Info().Msg("Database reachable")
	} else {
		logging.Warn().Err(err).Msg("Database unreachable")
	}
}

// String names the service in supervisor logs.
func (s *PoolMonitorService) String() string {
	return s.name
}
