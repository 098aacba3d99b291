// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

// Package api exposes the HTTP surface of the service: recommendation and
// statistics endpoints backed by the refresh manager's cached results, a
// manual refresh trigger, health probes, and Prometheus metrics.
//
// Routing uses chi with production middleware from its ecosystem (CORS,
// per-endpoint rate limits, request IDs, compression). All responses share
// a single JSON envelope carrying the request ID and timing metadata, so
// clients and log correlation treat every endpoint uniformly.
//
// The package holds no domain state. Handlers read whatever snapshot the
// refresh manager last published; before the first refresh completes the
// data endpoints answer 503 and the readiness probe reports not ready.
package api
