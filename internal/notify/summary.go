// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package notify

import (
	"time"

	"github.com/tomtom215/curatarr/internal/recommend"
	"github.com/tomtom215/curatarr/internal/stats"
)

// Severity classifies a notification for embed coloring.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Summary describes a completed refresh run for notification purposes.
type Summary struct {
	// Reason is why the run happened: initial, changed, force_interval or
	// forced.
	Reason string

	// Duration is the end-to-end runtime of the refresh.
	Duration time.Duration

	// GeneratedAt is the reference time of the run.
	GeneratedAt time.Time

	// Entity counts of the snapshot the run computed over.
	PerformerCount int
	SceneCount     int
	TagCount       int

	// Stats carries the computed library statistics, nil when unavailable.
	Stats *stats.Summary

	// PerformerResult and SceneResult carry the engine outputs, nil when an
	// engine did not run.
	PerformerResult *recommend.Result
	SceneResult     *recommend.Result

	// Warnings lists non-fatal stage failures, such as export write
	// errors. A summary with warnings renders with warning severity
	// instead of info.
	Warnings []string
}

// Severity returns the severity the summary renders with.
func (s *Summary) Severity() Severity {
	if len(s.Warnings) > 0 {
		return SeverityWarning
	}
	return SeverityInfo
}
