// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

/*
Package stash provides the GraphQL client for the Stash media server.

The read set covers the four operations the refresh pipeline needs: Ping
(systemStatus), GetPerformers (allPerformers), GetScenes (findScenes, paged
in id order until the library is exhausted) and GetTags (allTags). Responses
unmarshal directly into the internal/models types; derived attributes are
computed later by the pipeline with its reference time.

Requests are rate limited with a token bucket, retried with exponential
backoff on HTTP 429 (honoring Retry-After), and fail on GraphQL errors even
when the HTTP status is 200. CircuitBreakerClient adds circuit breaker
protection for deployments where Stash restarts routinely; both
implementations satisfy the API interface.
*/
package stash
