// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/curatarr/internal/validation"
)

// RecommendationsRequest holds the validated query parameters shared by the
// ranked-list endpoints. Weight overrides are not part of this struct: they
// are parsed tolerantly by the recommend package, where an unknown or
// malformed override is logged and skipped rather than failing the request.
//
// Fields:
//   - Limit: caps the ranked list (1-1000). Zero means the parameter was
//     absent and the full list is returned.
type RecommendationsRequest struct {
	Limit int `validate:"min=1,max=1000"`
}

// parseRecommendationsRequest reads the ranked-list query parameters.
// Validation only runs when a parameter is present, so an absent limit
// keeps its zero value as the unlimited sentinel while an explicit
// limit=0 is rejected.
func parseRecommendationsRequest(r *http.Request) (RecommendationsRequest, error) {
	var req RecommendationsRequest

	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return req, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return req, errors.New("limit must be an integer")
	}
	req.Limit = limit

	if verr := validation.ValidateStruct(&req); verr != nil {
		return req, verr
	}
	return req, nil
}
