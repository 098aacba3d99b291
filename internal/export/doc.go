// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

// Package export writes refresh results to disk for external consumers.
//
// Each run produces statistics_export.json plus one JSON file per engine
// result, and optionally flattens the statistics distributions into CSV
// files. File names are stable, so a consumer can poll a fixed path and a
// new run overwrites the previous artifacts in place.
package export
