// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

// Package api serves the scoreboard analytics endpoints over a Chi router.
//
// Every analytics request runs the same pipeline: the endpoint's statement
// goes to the executor, the rows are validated against the endpoint's
// schema, and Respond writes the only response. Endpoints are pure
// EndpointFunc values; Serve adapts them to HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/scoreboard/internal/middleware"
)

// Router wires handlers and middleware into an http.Handler.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	endpoints     []Endpoint
}

// NewRouter creates a router over handler. A nil mw uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		endpoints:     Endpoints(),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to all routes in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.Route("/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.AccessLog)

		for _, ep := range router.endpoints {
			h := router.handler.Endpoint(ep)
			r.Method(ep.Method, ep.Path, h)
			if ep.Method == http.MethodGet {
				// Answered like GET; net/http discards the body.
				r.Method(http.MethodHead, ep.Path, h)
			}
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
