// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package trigger

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curatarr/internal/config"
	"github.com/tomtom215/curatarr/internal/models"
)

// Reason classifies the outcome of a detection pass.
type Reason string

const (
	// ReasonInitial means no persisted state exists, so everything computes
	// from scratch.
	ReasonInitial Reason = "initial"

	// ReasonChanged means the library content differs from the last run.
	ReasonChanged Reason = "changed"

	// ReasonForceInterval means the maximum age between runs has elapsed.
	ReasonForceInterval Reason = "force_interval"

	// ReasonUnchanged means the snapshot matches the persisted fingerprints.
	ReasonUnchanged Reason = "unchanged"
)

// Decision is the outcome of a change detection pass.
type Decision struct {
	// Run reports whether the refresh pipeline should recompute.
	Run bool

	// Reason classifies the decision.
	Reason Reason

	// Performers, Scenes and Tags flag which entity groups changed compared
	// to the persisted state. All three are set on an initial run and none
	// on a force-interval run.
	Performers bool
	Scenes     bool
	Tags       bool

	// Current holds the fingerprints of the inspected snapshot, ready to be
	// committed once the run completes.
	Current Fingerprints
}

// Detector decides whether a library snapshot warrants a refresh run.
type Detector struct {
	store         *Store
	forceInterval time.Duration
	logger        zerolog.Logger
}

// NewDetector creates a detector backed by the given store.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewDetector(store *Store, cfg *config.RefreshConfig, logger zerolog.Logger) *Detector {
	return &Detector{
		store:         store,
		forceInterval: cfg.ForceUpdateInterval,
		logger:        logger.With().Str("component", "trigger").Logger(),
	}
}

// Detect compares the snapshot against the persisted state. It never fails:
// unreadable state degrades to a full run, because detection exists to skip
// work, not to gate it.
func (d *Detector) Detect(ctx context.Context, performers []*models.Performer, scenes []*models.Scene, tags []*models.Tag, now time.Time) Decision {
	current := Compute(performers, scenes, tags)

	state, err := d.store.LoadState(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("Failed to load trigger state, running full refresh")
		return Decision{Run: true, Reason: ReasonInitial, Performers: true, Scenes: true, Tags: true, Current: current}
	}
	if state == nil {
		d.logger.Info().Msg("No previous run recorded, running initial refresh")
		return Decision{Run: true, Reason: ReasonInitial, Performers: true, Scenes: true, Tags: true, Current: current}
	}

	if d.forceInterval > 0 {
		if age := now.Sub(state.LastRun); age >= d.forceInterval {
			d.logger.Info().
				Dur("age", age).
				Dur("force_update_interval", d.forceInterval).
				Msg("Forcing refresh, maximum age between runs elapsed")
			return Decision{Run: true, Reason: ReasonForceInterval, Current: current}
		}
	}

	if state.Fingerprints.Combined != current.Combined {
		decision := Decision{
			Run:        true,
			Reason:     ReasonChanged,
			Performers: state.Fingerprints.Performers != current.Performers,
			Scenes:     state.Fingerprints.Scenes != current.Scenes,
			Tags:       state.Fingerprints.Tags != current.Tags,
			Current:    current,
		}
		d.logger.Info().
			Bool("performers", decision.Performers).
			Bool("scenes", decision.Scenes).
			Bool("tags", decision.Tags).
			Msg("Library changes detected")
		return decision
	}

	d.logger.Debug().Msg("No library changes detected")
	return Decision{Run: false, Reason: ReasonUnchanged, Current: current}
}

// Commit records the fingerprints and timestamp of a completed run. The
// pipeline calls this only after a successful run, so a failed run is
// retried on the next tick instead of being masked by fresh fingerprints.
func (d *Detector) Commit(ctx context.Context, fps Fingerprints, now time.Time) error {
	return d.store.SaveState(ctx, &State{Fingerprints: fps, LastRun: now})
}
