// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus client
library, exposing metrics for monitoring refresh runs, recommendation engine
performance, API latency, and upstream Stash API health.

# Overview

The package provides metrics for:
  - Refresh pipeline duration, outcomes, and per-stage errors
  - Library snapshot sizes (performers, scenes, tags)
  - Recommendation engine run duration and output volume
  - HTTP request latency and throughput
  - Circuit breaker state transitions for the Stash client
  - Discord notification delivery
  - Export file writes

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:9998/metrics

# Available Metrics

Refresh Metrics:
  - refresh_duration_seconds: Completed run duration (histogram)
    Buckets: 0.5, 1, 5, 10, 30, 60, 120, 300, 600
  - refresh_runs_total: Run outcomes (counter)
    Labels: result (completed, skipped, failed)
  - refresh_errors_total: Per-stage failures (counter)
    Labels: stage (fetch, trigger, stats, engine, export, notify, persist)
  - refresh_last_success_timestamp: Unix timestamp of last completed run (gauge)
  - library_entities: Snapshot entity counts (gauge)
    Labels: entity (performers, scenes, tags)

Engine Metrics:
  - engine_run_duration_seconds: Engine run duration (histogram)
    Labels: engine (performer, scene)
  - engine_categories_populated: Non-empty categories in latest run (gauge)
    Labels: engine
  - recommendations_produced_total: Recommendations across all runs (counter)
    Labels: engine

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through the breaker (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures: Consecutive failures (gauge)
    Labels: name
  - circuit_breaker_state_transitions_total: State transitions (counter)
    Labels: name, from_state, to_state

Notification and Export Metrics:
  - notifications_sent_total / notification_errors_total / notifications_suppressed_total
  - exports_written_total / export_errors_total
    Labels: format (json, csv)

# Usage Example

Recording a refresh run:

	start := time.Now()
	err := pipeline.Run(ctx)
	if err != nil {
	    metrics.RecordRefreshRun("failed", time.Since(start))
	    return err
	}
	metrics.RecordRefreshRun("completed", time.Since(start))

Recording an engine run:

	result := engine.Generate(snapshot)
	metrics.RecordEngineRun("performer", result.Duration, len(result.Categories), result.Total)

# Prometheus Configuration

Example prometheus.yml configuration:

	scrape_configs:
	  - job_name: 'curatarr'
	    static_configs:
	      - targets: ['localhost:9998']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

Example PromQL queries:

	# Refresh failure rate
	rate(refresh_runs_total{result="failed"}[1h])

	# HTTP p95 latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))

	# Time since last successful refresh
	time() - refresh_last_success_timestamp

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels are normalized (no query parameters)
  - Pipeline stages and engine variants are fixed constants
  - Entity labels are limited to the three Stash entity kinds

# See Also

  - internal/api: HTTP handlers with request metrics
  - internal/refresh: Pipeline stage metrics recording
  - internal/stash: Circuit breaker metrics recording
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
*/
package metrics
