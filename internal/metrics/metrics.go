// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Refresh pipeline runs (fetch, stats, engines, export, notify)
// - Recommendation engine performance
// - API endpoint latency and throughput
// - Stash API circuit breaker state
// - Discord notification delivery

var (
	// Refresh Pipeline Metrics
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "refresh_duration_seconds",
			Help:    "Duration of full refresh runs in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600}, // Full runs can take minutes on large libraries
		},
	)

	RefreshRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_runs_total",
			Help: "Total number of refresh runs by result",
		},
		[]string{"result"}, // "completed", "skipped", "failed"
	)

	RefreshErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_errors_total",
			Help: "Total number of refresh errors by pipeline stage",
		},
		[]string{"stage"}, // "fetch", "trigger", "stats", "engine", "export", "notify", "persist"
	)

	RefreshLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "refresh_last_success_timestamp",
			Help: "Unix timestamp of last completed refresh run",
		},
	)

	LibraryEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "library_entities",
			Help: "Number of entities loaded from Stash in the latest snapshot",
		},
		[]string{"entity"}, // "performers", "scenes", "tags"
	)

	// Recommendation Engine Metrics
	EngineRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_run_duration_seconds",
			Help:    "Duration of recommendation engine runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"engine"}, // "performer", "scene"
	)

	EngineCategoriesPopulated = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "engine_categories_populated",
			Help: "Number of non-empty recommendation categories in the latest run",
		},
		[]string{"engine"},
	)

	RecommendationsProduced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_produced_total",
			Help: "Total number of recommendations produced across all runs",
		},
		[]string{"engine"},
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
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

	// Notification Metrics
	NotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of Discord notifications sent",
		},
	)

	NotificationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_errors_total",
			Help: "Total number of failed Discord notification attempts",
		},
	)

	NotificationsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_suppressed_total",
			Help: "Total number of notifications suppressed by the minimum interval",
		},
	)

	// Export Metrics
	ExportsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exports_written_total",
			Help: "Total number of export files written",
		},
		[]string{"format"}, // "json", "csv"
	)

	ExportErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_errors_total",
			Help: "Total number of export write failures",
		},
		[]string{"format"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordRefreshRun records the outcome of a refresh run.
// Result must be one of "completed", "skipped", "failed". The duration
// histogram and last-success timestamp are only updated for completed runs;
// skipped runs finish in microseconds and would skew the distribution.
func RecordRefreshRun(result string, duration time.Duration) {
	RefreshRuns.WithLabelValues(result).Inc()
	if result == "completed" {
		RefreshDuration.Observe(duration.Seconds())
		RefreshLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordRefreshError records a failure in the named pipeline stage.
func RecordRefreshError(stage string) {
	RefreshErrors.WithLabelValues(stage).Inc()
}

// SetLibraryEntities updates the snapshot size gauges after a fetch.
func SetLibraryEntities(performers, scenes, tags int) {
	LibraryEntities.WithLabelValues("performers").Set(float64(performers))
	LibraryEntities.WithLabelValues("scenes").Set(float64(scenes))
	LibraryEntities.WithLabelValues("tags").Set(float64(tags))
}

// RecordEngineRun records a recommendation engine run.
func RecordEngineRun(engine string, duration time.Duration, categories, recommendations int) {
	EngineRunDuration.WithLabelValues(engine).Observe(duration.Seconds())
	EngineCategoriesPopulated.WithLabelValues(engine).Set(float64(categories))
	RecommendationsProduced.WithLabelValues(engine).Add(float64(recommendations))
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

// RecordNotification records a Discord delivery attempt.
func RecordNotification(err error) {
	if err != nil {
		NotificationErrors.Inc()
		return
	}
	NotificationsSent.Inc()
}

// RecordExport records an export file write.
func RecordExport(format string, err error) {
	if err != nil {
		ExportErrors.WithLabelValues(format).Inc()
		return
	}
	ExportsWritten.WithLabelValues(format).Inc()
}
