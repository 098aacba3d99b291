// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

// Package trigger decides when the refresh pipeline needs to recompute.
//
// A snapshot is reduced to per-group content fingerprints (performers,
// scenes, tags) plus a combined hash. Detection compares those against the
// state persisted by the previous successful run, and also forces a run once
// the configured maximum age has elapsed so that time-dependent scores such
// as novelty stay current even in an unchanging library. State lives in a
// BadgerDB store and is committed only after a run completes.
package trigger
