// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/tomtom215/scoreboard/internal/schema"
)

func TestEndpoints(t *testing.T) {
	wantPaths := []string{"/", "/top-players", "/inactive-players", "/popular-genres", "/recent-players", "/favorite-games"}

	eps := Endpoints()
	if len(eps) != len(wantPaths) {
		t.Fatalf("len(Endpoints()) = %d, want %d", len(eps), len(wantPaths))
	}

	names := make(map[string]bool)
	for i, ep := range eps {
		if ep.Path != wantPaths[i] {
			t.Errorf("Endpoints()[%d].Path = %q, want %q", i, ep.Path, wantPaths[i])
		}
		if names[ep.Name] {
			t.Errorf("duplicate endpoint name %q", ep.Name)
		}
		names[ep.Name] = true

		if ep.Method != http.MethodGet {
			t.Errorf("%s: Method = %q, want GET", ep.Name, ep.Method)
		}

		if err := ep.Schema.Check(); err != nil {
			t.Errorf("%s: schema check: %v", ep.Name, err)
		}
		if !strings.HasPrefix(strings.TrimSpace(ep.SQL), "SELECT") {
			t.Errorf("%s: SQL does not start with SELECT", ep.Name)
		}
		// Every schema field must be selected by name.
		for _, f := range ep.Schema.Fields {
			if !strings.Contains(ep.SQL, f.Name) {
				t.Errorf("%s: SQL does not select %q", ep.Name, f.Name)
			}
		}
	}
}

func TestCheckEndpoints(t *testing.T) {
	if err := CheckEndpoints(Endpoints()); err != nil {
		t.Fatalf("CheckEndpoints(Endpoints()) = %v", err)
	}

	badRules := schema.TopPlayer
	badRules.Fields = append([]schema.Field(nil), schema.TopPlayer.Fields...)
	badRules.Fields[1].Rules = "gte=0,notarule"

	base := Endpoints()[1]
	withSchema := func(s schema.RowSchema) Endpoint {
		ep := base
		ep.Schema = s
		return ep
	}
	withMethod := func(m string) Endpoint {
		ep := base
		ep.Method = m
		return ep
	}
	renamed := base
	renamed.Name = "top-players-again"

	tests := []struct {
		name    string
		eps     []Endpoint
		wantErr string
	}{
		{"invalid rules tag", []Endpoint{withSchema(badRules)}, "invalid rules"},
		{"unsupported method", []Endpoint{withMethod(http.MethodPost)}, "unsupported method"},
		{"duplicate name", []Endpoint{base, base}, "duplicate endpoint name"},
		{"duplicate route", []Endpoint{base, renamed}, "duplicate route"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEndpoints(tt.eps)
			if err == nil {
				t.Fatal("CheckEndpoints() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("CheckEndpoints() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
