// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curatarr/internal/recommend"
	"github.com/tomtom215/curatarr/internal/refresh"
	"github.com/tomtom215/curatarr/internal/stash"
	"github.com/tomtom215/curatarr/internal/validation"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, shared helpers (this file)
//   - handlers_health.go: Health and probe endpoints
//   - handlers_recommend.go: Recommendation endpoints
//   - handlers_stats.go: Statistics endpoints
//   - handlers_refresh.go: Manual refresh trigger
type Handler struct {
	manager   *refresh.Manager
	client    stash.API
	version   string
	startTime time.Time
	logger    zerolog.Logger
}

// NewHandler creates a new API handler. The manager serves cached refresh
// results and the client is only used for connectivity probes.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewHandler(manager *refresh.Manager, client stash.API, version string, logger zerolog.Logger) *Handler {
	return &Handler{
		manager:   manager,
		client:    client,
		version:   version,
		startTime: time.Now(),
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// respondBadRequest writes a 400 for a rejected request. Struct validation
// failures carry the VALIDATION_ERROR code with per-field details; anything
// else (an unparseable parameter) gets the plain bad-request envelope.
func respondBadRequest(rw *ResponseWriter, err error) {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}
	rw.BadRequest(err.Error())
}

// queryParams flattens the request query string to single values for the
// weight override parser. Repeated keys keep their first value.
func queryParams(r *http.Request) map[string]string {
	values := r.URL.Query()
	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}
	return params
}

// truncateTop caps the ranked list at n entries without touching the
// original. Results may be shared with the manager's cache, so they are
// copied rather than trimmed in place.
func truncateTop(result *recommend.Result, n int) *recommend.Result {
	if n <= 0 || n >= len(result.Top) {
		return result
	}

	trimmed := *result
	trimmed.Top = result.Top[:n]
	return &trimmed
}
