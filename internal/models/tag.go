// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package models

import "time"

// Tag is a Stash tag with its usage counts. Tags feed change detection and
// the tag frequency statistics; per-entity tag assignments travel as TagRef.
type Tag struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SceneCount     int       `json:"scene_count"`
	PerformerCount int       `json:"performer_count"`
	UpdatedAt      time.Time `json:"updated_at"`
}
