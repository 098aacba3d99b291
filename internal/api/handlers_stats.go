// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/curatarr/internal/stats"
)

// PerformerStatsResponse is the payload for the performer statistics endpoint.
// Correlations are derived from performer attributes, so they ride along here
// rather than getting an endpoint of their own.
type PerformerStatsResponse struct {
	GeneratedAt  time.Time              `json:"generated_at"`
	Performers   stats.PerformerStats   `json:"performers"`
	Correlations stats.CorrelationStats `json:"correlations"`
}

// SceneStatsResponse is the payload for the scene statistics endpoint.
type SceneStatsResponse struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Scenes      stats.SceneStats `json:"scenes"`
}

// PerformerStats serves the performer statistics from the latest snapshot.
// 404 when the collector is disabled, 503 before the first completed run.
func (h *Handler) PerformerStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if !h.manager.StatsEnabled() {
		rw.NotFound("Statistics disabled by configuration")
		return
	}

	summary := h.manager.StatsSummary()
	if summary == nil {
		rw.ServiceUnavailable("No snapshot computed yet, retry after the first refresh completes")
		return
	}

	rw.Success(PerformerStatsResponse{
		GeneratedAt:  summary.GeneratedAt,
		Performers:   summary.Performers,
		Correlations: summary.Correlations,
	})
}

// SceneStats serves the scene statistics from the latest snapshot.
func (h *Handler) SceneStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if !h.manager.StatsEnabled() {
		rw.NotFound("Statistics disabled by configuration")
		return
	}

	summary := h.manager.StatsSummary()
	if summary == nil {
		rw.ServiceUnavailable("No snapshot computed yet, retry after the first refresh completes")
		return
	}

	rw.Success(SceneStatsResponse{
		GeneratedAt: summary.GeneratedAt,
		Scenes:      summary.Scenes,
	})
}
