// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package recommend

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curatarr/internal/models"
)

// SceneEngine generates scene recommendations from a library snapshot. It
// holds no per-run state and is safe for concurrent use.
type SceneEngine struct {
	cfg    SceneConfig
	logger zerolog.Logger
}

// NewSceneEngine creates a scene engine with a validated config.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewSceneEngine(cfg SceneConfig, logger zerolog.Logger) (*SceneEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}
	return &SceneEngine{
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend.scene").Logger(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *SceneEngine) Config() SceneConfig {
	return e.cfg
}

// Generate runs one full recommendation pass over the snapshot. Performers
// are consulted only for the favorite set.
func (e *SceneEngine) Generate(scenes []*models.Scene, performers []*models.Performer, now time.Time) *Result {
	return e.GenerateWithOverrides(scenes, performers, now, Overrides{})
}

// GenerateWithOverrides runs one pass with per-run weight overrides applied
// to a copy of the engine configuration.
func (e *SceneEngine) GenerateWithOverrides(scenes []*models.Scene, performers []*models.Performer, now time.Time, ov Overrides) *Result {
	cfg := e.cfg
	ov.applyScene(&cfg, e.logger)

	profile := BuildSceneProfile(scenes, performers, &cfg)
	if profile.Empty() {
		e.logger.Warn().
			Int("scenes", len(scenes)).
			Msg("no watched scenes; preference categories depend on high-rated scenes only")
	}

	run := &sceneRun{
		cfg:        &cfg,
		profile:    profile,
		candidates: selectSceneCandidates(scenes, profile),
		now:        now,
	}

	categories := make(map[string][]ScoredScene, len(sceneCriteria))
	for _, crit := range sceneCriteria {
		list := run.scoreCategory(crit)
		categories[crit.name] = list
		e.logger.Debug().
			Str("category", crit.name).
			Int("entries", len(list)).
			Msg("category scored")
	}

	top := aggregateScenes(categories, SceneCategories(), cfg.Weights.ToMap(), cfg.MaxRecommendations)

	e.logger.Info().
		Int("candidates", len(run.candidates)).
		Int("watched", len(profile.WatchedIDs)).
		Int("top", len(top)).
		Msg("scene recommendations generated")

	return buildSceneResult(profile, run, categories, top, now)
}

// selectSceneCandidates returns unplayed scenes outside the watched set.
// The play counter check and the watched set usually coincide, but a raised
// plays-for-preference threshold can leave partially played scenes outside
// the watched set; those still never become candidates.
func selectSceneCandidates(scenes []*models.Scene, profile *SceneProfile) []*models.Scene {
	candidates := make([]*models.Scene, 0, len(scenes))
	for _, s := range scenes {
		if s.OCounter != 0 {
			continue
		}
		if _, watched := profile.WatchedIDs[s.ID]; watched {
			continue
		}
		candidates = append(candidates, s)
	}
	return candidates
}

// sceneRun holds the read-only state one generation pass scores against.
type sceneRun struct {
	cfg        *SceneConfig
	profile    *SceneProfile
	candidates []*models.Scene
	now        time.Time
}

// sceneScoreFunc scores one candidate against the run state, reporting
// ok=false when the criterion does not apply.
type sceneScoreFunc func(s *models.Scene, run *sceneRun) (float64, bool)

// sceneCriterion couples a category name with its scorer and list shaping:
// binary-membership categories tie-break on rating, and the overall
// top-rated list runs on a doubled cap.
type sceneCriterion struct {
	name         string
	score        sceneScoreFunc
	ratingTieBrk bool
	doubledCap   bool
}

var sceneCriteria = []sceneCriterion{
	{name: CategoryTagSimilarity, score: scoreSceneTags},
	{name: CategoryFavoritePerformers, score: scoreFavoritePerformers, ratingTieBrk: true},
	{name: CategoryPreferredStudios, score: scorePreferredStudios, ratingTieBrk: true},
	{name: CategoryHighQualityUnwatched, score: scoreSceneQuality},
	{name: CategoryNoveltyUnwatched, score: scoreSceneNovelty},
	{name: CategoryTopUnwatched, score: scoreTopRated, doubledCap: true},
}

// scoreCategory runs one scorer over the pool and returns the sorted,
// capped category list.
func (r *sceneRun) scoreCategory(crit sceneCriterion) []ScoredScene {
	scored := make([]ScoredScene, 0)
	for _, c := range r.candidates {
		s, ok := crit.score(c, r)
		if !ok {
			continue
		}
		scored = append(scored, ScoredScene{Scene: c, Score: s})
	}

	if crit.ratingTieBrk {
		sortScoredScenesByRating(scored)
	} else {
		sortScoredScenes(scored)
	}

	maxLen := r.cfg.MaxRecommendations
	if crit.doubledCap {
		maxLen *= 2
	}
	return capScenes(scored, maxLen)
}

// scoreSceneTags measures Jaccard overlap between the candidate's tag IDs
// and the preferred tag set.
func scoreSceneTags(s *models.Scene, run *sceneRun) (float64, bool) {
	sim, ok := jaccard(s.TagIDSet(), run.profile.PreferredTagIDs)
	if !ok {
		return 0, false
	}
	if sim < run.cfg.MinTagSimilarity {
		return 0, false
	}
	return sim, true
}

// scoreFavoritePerformers marks scenes featuring at least one favorite
// performer. Membership is binary; the category sorts on rating within the
// 1.0 scores.
func scoreFavoritePerformers(s *models.Scene, run *sceneRun) (float64, bool) {
	if len(run.profile.FavoritePerformerIDs) == 0 {
		return 0, false
	}
	for _, ref := range s.Performers {
		if _, ok := run.profile.FavoritePerformerIDs[ref.ID]; ok {
			return 1, true
		}
	}
	return 0, false
}

// scorePreferredStudios marks scenes from a preferred studio.
func scorePreferredStudios(s *models.Scene, run *sceneRun) (float64, bool) {
	if s.Studio == nil {
		return 0, false
	}
	if _, ok := run.profile.PreferredStudioIDs[s.Studio.ID]; !ok {
		return 0, false
	}
	return 1, true
}

func scoreSceneQuality(s *models.Scene, run *sceneRun) (float64, bool) {
	return qualityScore(s.Rating100, run.cfg.MinRating)
}

func scoreSceneNovelty(s *models.Scene, run *sceneRun) (float64, bool) {
	return noveltyScore(run.now, s.CreatedAt, run.cfg.NoveltyDays)
}

// scoreTopRated admits every rated candidate so the overall list surfaces
// the best unwatched content regardless of profile fit.
func scoreTopRated(s *models.Scene, run *sceneRun) (float64, bool) {
	if s.Rating100 == nil || *s.Rating100 <= 0 {
		return 0, false
	}
	return float64(*s.Rating100) / 100, true
}

// buildSceneResult serializes the run into the downstream contract.
func buildSceneResult(profile *SceneProfile, run *sceneRun, categories map[string][]ScoredScene, top []ScoredScene, now time.Time) *Result {
	result := &Result{
		Variant:        VariantScene,
		GeneratedAt:    now,
		ReferenceCount: len(profile.WatchedIDs),
		CandidateCount: len(run.candidates),
		Categories:     make(map[string][]CategoryEntry, len(categories)),
	}
	for name, entries := range categories {
		result.Categories[name] = sceneEntries(entries)
	}
	result.Top = sceneEntries(top)
	return result
}

func sceneEntries(scored []ScoredScene) []CategoryEntry {
	entries := make([]CategoryEntry, 0, len(scored))
	for _, s := range scored {
		entries = append(entries, CategoryEntry{
			ID:    s.Scene.ID,
			Name:  s.Scene.Title,
			Score: s.Score,
		})
	}
	return entries
}
