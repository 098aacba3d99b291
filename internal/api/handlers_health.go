// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package api

import (
	"net/http"
	"time"
)

// HealthStatus describes overall service health.
type HealthStatus struct {
	Status         string     `json:"status"`
	Version        string     `json:"version"`
	StashConnected bool       `json:"stash_connected"`
	SnapshotReady  bool       `json:"snapshot_ready"`
	LastRefresh    *time.Time `json:"last_refresh,omitempty"`
	UptimeSeconds  float64    `json:"uptime_seconds"`
}

// Health handles health check requests.
//
// The service reports healthy once Stash is reachable and the first
// snapshot has been computed. Before the initial refresh completes, or
// when Stash is unreachable, the status is degraded but the endpoint
// still answers 200 so monitors can read the detail fields.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stashConnected := h.client != nil && h.client.Ping(r.Context()) == nil
	snapshotReady := h.manager != nil && h.manager.Ready()

	status := "healthy"
	if !stashConnected || !snapshotReady {
		status = "degraded"
	}

	var lastRefresh *time.Time
	if h.manager != nil {
		if managerStatus := h.manager.Status(); !managerStatus.LastRun.IsZero() {
			lastRefresh = &managerStatus.LastRun
		}
	}

	NewResponseWriter(w, r).Success(HealthStatus{
		Status:         status,
		Version:        h.version,
		StashConnected: stashConnected,
		SnapshotReady:  snapshotReady,
		LastRefresh:    lastRefresh,
		UptimeSeconds:  time.Since(h.startTime).Seconds(),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Ready means Stash is reachable and a snapshot has been computed, so
// every data endpoint can answer. Returns 503 until both hold.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	stashConnected := h.client != nil && h.client.Ping(r.Context()) == nil
	snapshotReady := h.manager != nil && h.manager.Ready()
	ready := stashConnected && snapshotReady

	readiness := map[string]interface{}{
		"stash_connected": stashConnected,
		"snapshot_ready":  snapshotReady,
		"ready_to_serve":  ready,
		"uptime":          time.Since(h.startTime).Seconds(),
	}

	rw := NewResponseWriter(w, r)
	if !ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service not ready", readiness)
		return
	}

	rw.Success(readiness)
}
