// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

/*
Package services provides suture.Service wrappers for Curatarr components.

This package adapts application components to the suture v4 supervision
model, translating their lifecycle patterns (scheduling loops, ListenAndServe)
into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation to the Serve pattern
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Refresh Scheduler (RefreshService):
  - Drives the refresh pipeline on a configurable interval
  - Optionally runs once on startup
  - Picks up forced runs queued by the POST /refresh endpoint

# Usage Example

Creating and registering services:

	import (
	    "net/http"
	    "time"

	    "github.com/tomtom215/curatarr/internal/supervisor"
	    "github.com/tomtom215/curatarr/internal/supervisor/services"
	)

	func setupSupervisor(server *http.Server, manager *refresh.Manager) {
	    tree, _ := supervisor.NewSupervisorTree(logger, config)

	    refreshSvc := services.NewRefreshService(manager, services.RefreshServiceConfig{
	        RefreshOnStartup: true,
	        Interval:         6 * time.Hour,
	    }, zlog)
	    tree.AddPipelineService(refreshSvc)

	    httpSvc := services.NewHTTPServerService(server, 10*time.Second, zlog)
	    tree.AddAPIService(httpSvc)

	    // Start supervision
	    tree.Serve(ctx)
	}

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

A failed refresh run does NOT crash the RefreshService: the error is
logged and the next scheduled tick retries. Only a canceled context
ends the scheduling loop.

# Service Identification

All services implement fmt.Stringer for logging:

	func (s *HTTPServerService) String() string {
	    return "api-server"
	}

Suture uses this for log messages:

	INFO api-server: starting
	INFO api-server: stopped
	ERROR api-server: restarting after failure

# Thread Safety

All service wrappers are safe for concurrent use:
  - Context cancellation is handled atomically
  - Multiple Serve calls are not supported (undefined behavior)

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - github.com/thejerf/suture/v4: Underlying supervision library
  - internal/refresh: Refresh pipeline implementation
*/
package services
