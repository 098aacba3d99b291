// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package api

import (
	"net/http"
)

// TriggerRefresh queues a forced refresh and returns immediately. The
// scheduler picks the request up and runs the pipeline even when the
// library fingerprints are unchanged. While a refresh is already running
// the endpoint answers 409, since the in-flight run will publish fresh
// results anyway.
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.manager.Running() {
		rw.Conflict("A refresh is already running")
		return
	}

	// A full queue means a forced run is already pending, which serves
	// this request just as well.
	queued := h.manager.RequestRefresh()
	if !queued {
		h.logger.Debug().Msg("Refresh request coalesced into pending run")
	}

	rw.Accepted(map[string]interface{}{
		"queued": true,
		"forced": true,
	})
}
