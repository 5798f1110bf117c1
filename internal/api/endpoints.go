// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tomtom215/scoreboard/internal/database"
	"github.com/tomtom215/scoreboard/internal/schema"
)

// Endpoint binds a method and path to the statement it runs and the schema
// its rows must satisfy.
type Endpoint struct {
	// Name labels logs and metrics.
	Name   string
	Method string
	Path   string
	SQL    string
	Schema schema.RowSchema
}

// EndpointFunc computes the result of one request. It never writes to the
// response.
type EndpointFunc func(ctx context.Context) Result

// Endpoints returns the analytics route table.
func Endpoints() []Endpoint {
	return []Endpoint{
		{Name: "player-scores", Method: http.MethodGet, Path: "/", SQL: database.SQLPlayerScores, Schema: schema.PlayerScore},
		{Name: "top-players", Method: http.MethodGet, Path: "/top-players", SQL: database.SQLTopPlayers, Schema: schema.TopPlayer},
		{Name: "inactive-players", Method: http.MethodGet, Path: "/inactive-players", SQL: database.SQLInactivePlayers, Schema: schema.InactivePlayer},
		{Name: "popular-genres", Method: http.MethodGet, Path: "/popular-genres", SQL: database.SQLPopularGenres, Schema: schema.PopularGenre},
		{Name: "recent-players", Method: http.MethodGet, Path: "/recent-players", SQL: database.SQLRecentPlayers, Schema: schema.RecentPlayer},
		{Name: "favorite-games", Method: http.MethodGet, Path: "/favorite-games", SQL: database.SQLFavoriteGames, Schema: schema.FavoriteGame},
	}
}

// CheckEndpoints rejects a route table with duplicate names or routes, an
// unsupported method, or a schema that fails RowSchema.Check. It runs at
// startup so a bad declaration never reaches a request.
func CheckEndpoints(eps []Endpoint) error {
	names := make(map[string]struct{}, len(eps))
	routes := make(map[string]struct{}, len(eps))
	for _, ep := range eps {
		if _, dup := names[ep.Name]; dup {
			return fmt.Errorf("duplicate endpoint name %q", ep.Name)
		}
		names[ep.Name] = struct{}{}

		if ep.Method != http.MethodGet {
			return fmt.Errorf("endpoint %q: unsupported method %q", ep.Name, ep.Method)
		}
		route := ep.Method + " " + ep.Path
		if _, dup := routes[route]; dup {
			return fmt.Errorf("endpoint %q: duplicate route %s", ep.Name, route)
		}
		routes[route] = struct{}{}

		if err := ep.Schema.Check(); err != nil {
			return fmt.Errorf("endpoint %q: %w", ep.Name, err)
		}
	}
	return nil
}

// Evaluate runs the statement and validates its rows. Executor failures stop
// the pipeline before validation.
func (e Endpoint) Evaluate(ctx context.Context, q database.Querier) Result {
	raw, err := q.Query(ctx, e.SQL)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Outcome: schema.Validate(e.Schema, raw)}
}

// Bind returns the endpoint as an EndpointFunc over q.
func (e Endpoint) Bind(q database.Querier) EndpointFunc {
	return func(ctx context.Context) Result {
		return e.Evaluate(ctx, q)
	}
}
