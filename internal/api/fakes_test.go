// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package api

import (
	"context"
	"sync"

	"github.com/tomtom215/scoreboard/internal/schema"
)

// fakeQuerier answers statements from a table. Unknown statements return no
// rows.
type fakeQuerier struct {
	mu      sync.Mutex
	rows    map[string][]schema.RawRow
	errs    map[string]error
	calls   []string
	pingErr error
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		rows: make(map[string][]schema.RawRow),
		errs: make(map[string]error),
	}
}

func (f *fakeQuerier) Query(_ context.Context, sql string) ([]schema.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sql)
	if err := f.errs[sql]; err != nil {
		return nil, err
	}
	return f.rows[sql], nil
}

func (f *fakeQuerier) Ping(context.Context) error {
	return f.pingErr
}

func (f *fakeQuerier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
