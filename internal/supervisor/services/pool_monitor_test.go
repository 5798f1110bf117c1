// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/scoreboard/internal/logging"
	"github.com/tomtom215/scoreboard/internal/metrics"
)

type scriptedPinger struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (p *scriptedPinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	if p.calls < len(p.errs) {
		err = p.errs[p.calls]
	}
	p.calls++
	return err
}

func (p *scriptedPinger) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestNewPoolMonitorService_Defaults(t *testing.T) {
	svc := NewPoolMonitorService(&scriptedPinger{}, 0)
	if svc.interval != 15*time.Second {
		t.Errorf("interval = %v, want 15s", svc.interval)
	}
	if svc.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", svc.timeout)
	}
	if svc.String() != "pool-monitor" {
		t.Errorf("String() = %q", svc.String())
	}

	if short := NewPoolMonitorService(&scriptedPinger{}, time.Second); short.timeout != time.Second {
		t.Errorf("timeout = %v, want 1s", short.timeout)
	}
}

func TestPoolMonitorService_LogsTransitions(t *testing.T) {
	var logs bytes.Buffer
	prev := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(&logs))
	t.Cleanup(func() { logging.SetLogger(prev) })

	down := errors.New("connection refused")
	pinger := &scriptedPinger{errs: []error{nil, nil, down, down, nil}}
	svc := NewPoolMonitorService(pinger, time.Hour)

	ctx := context.Background()
	svc.check(ctx)
	if got := testutil.ToFloat64(metrics.DBUp); got != 1 {
		t.Errorf("db_up = %v, want 1", got)
	}
	svc.check(ctx)
	svc.check(ctx)
	if got := testutil.ToFloat64(metrics.DBUp); got != 0 {
		t.Errorf("db_up = %v, want 0", got)
	}
	svc.check(ctx)
	svc.check(ctx)

	out := logs.String()
	if n := strings.Count(out, "Database reachable"); n != 2 {
		t.Errorf("reachable logged %d times, want 2:\n%s", n, out)
	}
	if n := strings.Count(out, "Database unreachable"); n != 1 {
		t.Errorf("unreachable logged %d times, want 1:\n%s", n, out)
	}
}

func TestPoolMonitorService_Serve(t *testing.T) {
	pinger := &scriptedPinger{}
	svc := NewPoolMonitorService(pinger, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for pinger.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if pinger.count() < 3 {
		t.Errorf("pings = %d, want at least 3", pinger.count())
	}
}
