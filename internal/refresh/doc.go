// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

/*
Package refresh coordinates the recomputation pipeline.

One run fetches the library snapshot from Stash, consults the change
detector, computes derived attributes, statistics and both recommendation
engines, exports artifacts, notifies Discord and commits the library
fingerprints. Results are cached in memory and served by the API; nothing
but the fingerprints and the last-run timestamp survives a restart.

Runs are serialized. The scheduler tick, the startup run and API-forced
runs all funnel through Manager.Refresh, which skips recomputation when
the library is unchanged unless forced.
*/
package refresh
