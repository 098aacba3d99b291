// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curatarr/internal/config"
	"github.com/tomtom215/curatarr/internal/export"
	"github.com/tomtom215/curatarr/internal/metrics"
	"github.com/tomtom215/curatarr/internal/models"
	"github.com/tomtom215/curatarr/internal/notify"
	"github.com/tomtom215/curatarr/internal/recommend"
	"github.com/tomtom215/curatarr/internal/stash"
	"github.com/tomtom215/curatarr/internal/stats"
	"github.com/tomtom215/curatarr/internal/trigger"
)

// ReasonForced marks a run requested through the API while the library was
// unchanged. Runs that the detector wanted anyway keep the detector's reason.
const ReasonForced = "forced"

// ErrNoSnapshot is returned by result accessors before the first completed
// run. The API maps it to 503 instead of serving empty results.
var ErrNoSnapshot = errors.New("no snapshot computed yet")

// ErrDisabled is returned by result accessors whose section is switched off
// in configuration. Distinct from ErrNoSnapshot: the API maps it to 404
// because no amount of waiting will produce the result.
var ErrDisabled = errors.New("disabled by configuration")

// Status describes the manager state for the API.
type Status struct {
	Running        bool      `json:"running"`
	SnapshotReady  bool      `json:"snapshot_ready"`
	LastRun        time.Time `json:"last_run"`
	LastReason     string    `json:"last_reason,omitempty"`
	LastDurationMs int64     `json:"last_duration_ms"`
	PerformerCount int       `json:"performer_count"`
	SceneCount     int       `json:"scene_count"`
	TagCount       int       `json:"tag_count"`
}

// Manager coordinates the refresh pipeline: fetch a library snapshot from
// Stash, decide via fingerprints whether anything changed, compute
// statistics and both recommendation engines, export artifacts, notify,
// and commit the trigger state.
//
// The collector and either engine may be nil when their section is
// disabled; the pipeline skips nil components and the accessors return
// ErrDisabled. Exporter and notifier gate on their own configuration and
// are always non-nil.
//
// Concurrency model:
//   - runMu serializes pipeline execution; a second caller blocks until
//     the run in flight finishes.
//   - mu guards the published state below it. Published snapshot slices
//     are never mutated again; a run derives attributes on freshly
//     fetched objects before swapping them in, so override runs reading
//     the previous snapshot race with nothing.
type Manager struct {
	client          stash.API
	detector        *trigger.Detector
	collector       *stats.Collector
	performerEngine *recommend.PerformerEngine
	sceneEngine     *recommend.SceneEngine
	exporter        *export.Writer
	notifier        *notify.DiscordNotifier
	cfg             *config.RefreshConfig
	logger          zerolog.Logger

	// forceCh queues API-requested runs for the scheduler loop. Buffer of
	// one: a queued run covers any number of requests behind it.
	forceCh chan struct{}

	runMu sync.Mutex

	mu              sync.RWMutex
	running         bool
	lastRun         time.Time
	lastReason      string
	lastDuration    time.Duration
	tagCount        int
	performers      []*models.Performer
	scenes          []*models.Scene
	statsSummary    *stats.Summary
	performerResult *recommend.Result
	sceneResult     *recommend.Result
}

// NewManager creates the pipeline coordinator.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewManager(
	client stash.API,
	detector *trigger.Detector,
	collector *stats.Collector,
	performerEngine *recommend.PerformerEngine,
	sceneEngine *recommend.SceneEngine,
	exporter *export.Writer,
	notifier *notify.DiscordNotifier,
	cfg *config.RefreshConfig,
	logger zerolog.Logger,
) *Manager {
	return &Manager{
		client:          client,
		detector:        detector,
		collector:       collector,
		performerEngine: performerEngine,
		sceneEngine:     sceneEngine,
		exporter:        exporter,
		notifier:        notifier,
		cfg:             cfg,
		logger:          logger.With().Str("component", "refresh").Logger(),
		forceCh:         make(chan struct{}, 1),
	}
}

// Refresh executes one pipeline run. When force is false and the library
// fingerprints match the persisted state, the run skips recomputation. A
// run also proceeds on matching fingerprints while nothing is cached yet,
// so a restart behind a persisted store still fills the in-memory cache.
//
// Export, notification and trigger-state persistence failures never fail
// the run; only an unreachable Stash does.
func (m *Manager) Refresh(ctx context.Context, force bool) error {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	m.setRunning(true)
	defer m.setRunning(false)

	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()

	performers, scenes, tags, err := m.fetchSnapshot(ctx)
	if err != nil {
		metrics.RecordRefreshError("fetch")
		metrics.RecordRefreshRun("failed", time.Since(start))
		return err
	}
	metrics.SetLibraryEntities(len(performers), len(scenes), len(tags))

	now := time.Now()
	decision := m.detector.Detect(ctx, performers, scenes, tags, now)
	if !decision.Run && !force && m.Ready() {
		metrics.RecordRefreshRun("skipped", time.Since(start))
		m.logger.Info().
			Int("performers", len(performers)).
			Int("scenes", len(scenes)).
			Int("tags", len(tags)).
			Msg("Refresh skipped, library unchanged")
		return nil
	}

	reason := string(decision.Reason)
	if !decision.Run {
		if force {
			reason = ReasonForced
		} else {
			// Unchanged fingerprints but an empty cache: a fresh
			// process restarted behind a persisted store.
			reason = string(trigger.ReasonInitial)
		}
	}

	prepareSnapshot(performers, scenes, now)

	var summary *stats.Summary
	if m.collector != nil {
		summary = m.collector.Compute(performers, scenes, now)
	}

	var performerResult *recommend.Result
	if m.performerEngine != nil {
		engineStart := time.Now()
		performerResult = m.performerEngine.Generate(performers, now)
		metrics.RecordEngineRun(recommend.VariantPerformer, time.Since(engineStart),
			performerResult.CategoryCount(), len(performerResult.Top))
	}

	var sceneResult *recommend.Result
	if m.sceneEngine != nil {
		engineStart := time.Now()
		sceneResult = m.sceneEngine.Generate(scenes, performers, now)
		metrics.RecordEngineRun(recommend.VariantScene, time.Since(engineStart),
			sceneResult.CategoryCount(), len(sceneResult.Top))
	}

	warnings := m.exporter.WriteAll(summary, performerResult, sceneResult)

	runSummary := &notify.Summary{
		Reason:          reason,
		Duration:        time.Since(start),
		GeneratedAt:     now,
		PerformerCount:  len(performers),
		SceneCount:      len(scenes),
		TagCount:        len(tags),
		Stats:           summary,
		PerformerResult: performerResult,
		SceneResult:     sceneResult,
		Warnings:        warnings,
	}
	if err := m.notifier.Send(ctx, runSummary); err != nil {
		m.logger.Error().Err(err).Msg("Failed to deliver refresh notification")
	}

	if err := m.detector.Commit(ctx, decision.Current, now); err != nil {
		metrics.RecordRefreshError("persist")
		m.logger.Error().Err(err).Msg("Failed to persist trigger state, next run will recompute")
	}

	m.mu.Lock()
	m.performers = performers
	m.scenes = scenes
	m.tagCount = len(tags)
	m.statsSummary = summary
	m.performerResult = performerResult
	m.sceneResult = sceneResult
	m.lastRun = now
	m.lastReason = reason
	m.lastDuration = time.Since(start)
	m.mu.Unlock()

	metrics.RecordRefreshRun("completed", time.Since(start))
	m.logger.Info().
		Str("reason", reason).
		Int("performers", len(performers)).
		Int("scenes", len(scenes)).
		Int("tags", len(tags)).
		Int("warnings", len(warnings)).
		Dur("duration", time.Since(start)).
		Msg("Refresh completed")
	return nil
}

// fetchSnapshot reads the full library from Stash. Any failure aborts the
// run; partial snapshots would poison fingerprints and recommendations.
func (m *Manager) fetchSnapshot(ctx context.Context) ([]*models.Performer, []*models.Scene, []*models.Tag, error) {
	performers, err := m.client.GetPerformers(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch performers: %w", err)
	}
	scenes, err := m.client.GetScenes(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch scenes: %w", err)
	}
	tags, err := m.client.GetTags(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch tags: %w", err)
	}
	return performers, scenes, tags, nil
}

// prepareSnapshot computes derived attributes against the run's reference
// time, then the per-scene performer aggregates from the full index.
// Fingerprinting runs before this on the raw fields, so derivation never
// influences change detection.
func prepareSnapshot(performers []*models.Performer, scenes []*models.Scene, now time.Time) {
	byID := make(map[string]*models.Performer, len(performers))
	for _, p := range performers {
		p.Derive(now)
		byID[p.ID] = p
	}
	for _, s := range scenes {
		s.Derive(now)
		s.EnrichWithPerformers(byID)
	}
}

func (m *Manager) setRunning(v bool) {
	m.mu.Lock()
	m.running = v
	m.mu.Unlock()
}

// Running reports whether a pipeline run is in flight.
func (m *Manager) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// Ready reports whether a snapshot has been computed since startup. Keyed
// on the run timestamp rather than any one artifact, so it holds with
// sections disabled.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.lastRun.IsZero()
}

// Status returns the refresh state for the API.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{
		Running:        m.running,
		SnapshotReady:  !m.lastRun.IsZero(),
		LastRun:        m.lastRun,
		LastReason:     m.lastReason,
		LastDurationMs: m.lastDuration.Milliseconds(),
		PerformerCount: len(m.performers),
		SceneCount:     len(m.scenes),
		TagCount:       m.tagCount,
	}
}

// StatsEnabled reports whether the statistics collector is wired in.
func (m *Manager) StatsEnabled() bool {
	return m.collector != nil
}

// StatsSummary returns the cached statistics, nil before the first
// completed run.
func (m *Manager) StatsSummary() *stats.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statsSummary
}

// PerformerRecommendations returns the cached performer result, or a fresh
// engine run over the cached snapshot when overrides are supplied.
func (m *Manager) PerformerRecommendations(ov recommend.Overrides) (*recommend.Result, error) {
	if m.performerEngine == nil {
		return nil, ErrDisabled
	}

	m.mu.RLock()
	cached := m.performerResult
	performers := m.performers
	m.mu.RUnlock()

	if cached == nil {
		return nil, ErrNoSnapshot
	}
	if ov.Empty() {
		return cached, nil
	}
	return m.performerEngine.GenerateWithOverrides(performers, time.Now(), ov), nil
}

// SceneRecommendations is the scene counterpart of PerformerRecommendations.
func (m *Manager) SceneRecommendations(ov recommend.Overrides) (*recommend.Result, error) {
	if m.sceneEngine == nil {
		return nil, ErrDisabled
	}

	m.mu.RLock()
	cached := m.sceneResult
	scenes := m.scenes
	performers := m.performers
	m.mu.RUnlock()

	if cached == nil {
		return nil, ErrNoSnapshot
	}
	if ov.Empty() {
		return cached, nil
	}
	return m.sceneEngine.GenerateWithOverrides(scenes, performers, time.Now(), ov), nil
}

// RequestRefresh queues a forced run for the scheduler loop. It reports
// false when a forced run is already queued.
func (m *Manager) RequestRefresh() bool {
	select {
	case m.forceCh <- struct{}{}:
		return true
	default:
		return false
	}
}

// ForceRequests exposes the forced-run queue. The scheduler loop selects
// on it next to its ticker.
func (m *Manager) ForceRequests() <-chan struct{} {
	return m.forceCh
}
