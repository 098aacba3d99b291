// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter configures all HTTP routes using the Chi router.
func NewRouter(handler *Handler, mw *ChiMiddleware) http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(RequestIDWithLogging())      // Add X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(mw.CORS())                   // CORS must be global to handle OPTIONS preflight
	r.Use(chimiddleware.Compress(5))   // Ranked lists and stats payloads compress well

	// Unmatched routes answer with the standard error envelope
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).MethodNotAllowed("Method not allowed")
	})

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting so monitors can poll frequently
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", handler.HealthLive)
		r.Get("/ready", handler.HealthReady)
		r.Get("/", handler.Health)
	})

	// ========================
	// Data Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(PrometheusMetrics())

		r.Get("/recommendations/performers", handler.PerformerRecommendations)
		r.Get("/recommendations/scenes", handler.SceneRecommendations)
		r.Get("/stats/performers", handler.PerformerStats)
		r.Get("/stats/scenes", handler.SceneStats)

		// Refresh triggers a full library fetch, so it gets its own
		// stricter limit on top of the group limit.
		r.With(mw.RateLimitRefresh()).Post("/refresh", handler.TriggerRefresh)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
