// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

// Package notify delivers refresh run summaries to external channels.
//
// The Discord notifier renders a summary as webhook embeds: a run overview,
// the headline library statistics, and the top recommendations of each
// engine. Runs that finished with non-fatal warnings render with warning
// severity. Sends closer together than the configured minimum interval are
// suppressed rather than queued.
package notify
