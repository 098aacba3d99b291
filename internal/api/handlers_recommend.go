// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/curatarr/internal/recommend"
	"github.com/tomtom215/curatarr/internal/refresh"
)

// PerformerRecommendations serves the ranked performer list from the latest
// snapshot. Weight overrides (weight_<category> query parameters) trigger a
// fresh engine run over the cached snapshot; without them the cached result
// is returned as-is. An optional limit parameter caps the ranked list.
func (h *Handler) PerformerRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, err := parseRecommendationsRequest(r)
	if err != nil {
		respondBadRequest(rw, err)
		return
	}

	overrides := recommend.ParsePerformerOverrides(queryParams(r), h.logger)

	result, err := h.manager.PerformerRecommendations(overrides)
	if err != nil {
		h.respondRecommendError(rw, err)
		return
	}

	rw.Success(truncateTop(result, req.Limit))
}

// SceneRecommendations serves the ranked scene list from the latest
// snapshot, with the same override and limit handling as the performer
// endpoint.
func (h *Handler) SceneRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, err := parseRecommendationsRequest(r)
	if err != nil {
		respondBadRequest(rw, err)
		return
	}

	overrides := recommend.ParseSceneOverrides(queryParams(r), h.logger)

	result, err := h.manager.SceneRecommendations(overrides)
	if err != nil {
		h.respondRecommendError(rw, err)
		return
	}

	rw.Success(truncateTop(result, req.Limit))
}

// respondRecommendError maps recommendation lookup failures to responses.
// A disabled engine is 404 (permanent for this configuration), an empty
// cache before the first refresh is 503 (retryable).
func (h *Handler) respondRecommendError(rw *ResponseWriter, err error) {
	if errors.Is(err, refresh.ErrDisabled) {
		rw.NotFound("Recommendations disabled by configuration")
		return
	}
	if errors.Is(err, refresh.ErrNoSnapshot) {
		rw.ServiceUnavailable("No snapshot computed yet, retry after the first refresh completes")
		return
	}

	h.logger.Error().Err(err).Msg("Failed to produce recommendations")
	rw.InternalError("Failed to produce recommendations")
}
