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

// PerformerEngine generates performer recommendations from a library
// snapshot. It holds no per-run state and is safe for concurrent use.
type PerformerEngine struct {
	cfg    PerformerConfig
	logger zerolog.Logger
}

// NewPerformerEngine creates a performer engine with a validated config.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewPerformerEngine(cfg PerformerConfig, logger zerolog.Logger) (*PerformerEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid performer config: %w", err)
	}
	return &PerformerEngine{
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend.performer").Logger(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *PerformerEngine) Config() PerformerConfig {
	return e.cfg
}

// Generate runs one full recommendation pass over the snapshot. The
// reference time drives age and novelty scoring; passing it in keeps runs
// reproducible.
func (e *PerformerEngine) Generate(performers []*models.Performer, now time.Time) *Result {
	return e.GenerateWithOverrides(performers, now, Overrides{})
}

// GenerateWithOverrides runs one pass with per-run weight overrides applied
// to a copy of the engine configuration. Shared engine state is never
// mutated, so concurrent runs with different overrides are safe.
func (e *PerformerEngine) GenerateWithOverrides(performers []*models.Performer, now time.Time, ov Overrides) *Result {
	cfg := e.cfg
	ov.applyPerformer(&cfg, e.logger)

	profile := BuildPerformerProfile(performers, &cfg)
	if profile.Empty() {
		e.logger.Warn().
			Int("performers", len(performers)).
			Msg("no favorites and no rated performers; profile-dependent categories will be empty")
	} else if profile.FallbackUsed {
		e.logger.Info().
			Int("reference", len(profile.Reference)).
			Msg("no favorites; using top-rated performers as reference set")
	}

	run := &performerRun{
		cfg:        &cfg,
		profile:    profile,
		candidates: selectPerformerCandidates(performers, profile, cfg.IncludeZeroUsage),
		now:        now,
	}
	run.poolMaxTags = maxDistinctTags(run.candidates)

	categories := make(map[string][]ScoredPerformer, len(performerCriteria))
	for _, crit := range performerCriteria {
		list := run.scoreCategory(crit.score)
		categories[crit.name] = list
		e.logger.Debug().
			Str("category", crit.name).
			Int("entries", len(list)).
			Msg("category scored")
	}

	top := aggregatePerformers(categories, PerformerCategories(), cfg.Weights.ToMap(), cfg.MaxRecommendations)

	e.logger.Info().
		Int("candidates", len(run.candidates)).
		Int("reference", len(profile.Reference)).
		Int("top", len(top)).
		Msg("performer recommendations generated")

	return buildPerformerResult(profile, run, categories, top, now)
}

// selectPerformerCandidates returns the pool eligible for scoring. Reference
// members never appear; when includeZeroUsage is false the pool keeps only
// never-played performers. Attribute gaps are left to the scorers.
func selectPerformerCandidates(performers []*models.Performer, profile *PerformerProfile, includeZeroUsage bool) []*models.Performer {
	candidates := make([]*models.Performer, 0, len(performers))
	for _, p := range performers {
		if _, ref := profile.ReferenceIDs[p.ID]; ref {
			continue
		}
		if !includeZeroUsage && p.OCounter != 0 {
			continue
		}
		candidates = append(candidates, p)
	}
	return candidates
}

// maxDistinctTags returns the largest distinct-tag count in the pool. The
// versatility scale is pool-relative, recomputed every run.
func maxDistinctTags(candidates []*models.Performer) int {
	maxTags := 0
	for _, p := range candidates {
		if n := len(p.TagNameSet()); n > maxTags {
			maxTags = n
		}
	}
	return maxTags
}

// performerRun holds the read-only state one generation pass scores against.
type performerRun struct {
	cfg         *PerformerConfig
	profile     *PerformerProfile
	candidates  []*models.Performer
	poolMaxTags int
	now         time.Time
}

// performerScoreFunc scores one candidate against the run state, reporting
// ok=false when the criterion does not apply to the candidate.
type performerScoreFunc func(p *models.Performer, run *performerRun) (float64, bool)

// performerCriteria couples each category name with its scorer, in
// processing order.
var performerCriteria = []struct {
	name  string
	score performerScoreFunc
}{
	{CategorySimilarCupSize, scoreCupSize},
	{CategorySimilarProportions, scoreProportions},
	{CategorySimilarTags, scorePerformerTags},
	{CategorySimilarAge, scoreAge},
	{CategoryHighQuality, scorePerformerQuality},
	{CategoryNovelty, scorePerformerNovelty},
	{CategoryVersatile, scoreVersatility},
	{CategorySimilarToFavorites, scoreFavoriteSimilarity},
}

// scoreCategory runs one scorer over the pool and returns the sorted, capped
// category list.
func (r *performerRun) scoreCategory(score performerScoreFunc) []ScoredPerformer {
	scored := make([]ScoredPerformer, 0)
	for _, c := range r.candidates {
		s, ok := score(c, r)
		if !ok {
			continue
		}
		scored = append(scored, ScoredPerformer{Performer: c, Score: s})
	}
	sortScoredPerformers(scored)
	return capPerformers(scored, r.cfg.MaxRecommendations)
}

// scoreCupSize compares the candidate's numeric cup size to the reference
// average with bounded linear decay.
func scoreCupSize(p *models.Performer, run *performerRun) (float64, bool) {
	if !run.profile.HasCup || p.CupNumeric <= 0 {
		return 0, false
	}
	sim := decaySimilarity(float64(p.CupNumeric), run.profile.AvgCupNumeric, run.cfg.MaxCupDifference)
	if sim < run.cfg.MinSimilarityScore {
		return 0, false
	}
	return sim, true
}

// scoreProportions combines BMI-to-cup and height-to-cup proximity. Each
// component only participates when both the candidate and the reference
// average carry it, and the combined score normalizes by the participating
// weights so a missing component cannot drag the result below [0,1].
func scoreProportions(p *models.Performer, run *performerRun) (float64, bool) {
	var weighted, weightSum float64

	if run.profile.HasBMIToCup && p.BMIToCupRatio != nil && run.cfg.BMICupWeight > 0 {
		sim := decaySimilarity(*p.BMIToCupRatio, run.profile.AvgBMIToCup, run.cfg.MaxBMICupDifference)
		weighted += run.cfg.BMICupWeight * sim
		weightSum += run.cfg.BMICupWeight
	}
	if run.profile.HasHeightToCup && p.HeightToCupRatio != nil && run.cfg.HeightCupWeight > 0 {
		sim := decaySimilarity(*p.HeightToCupRatio, run.profile.AvgHeightToCup, run.cfg.MaxHeightCupDifference)
		weighted += run.cfg.HeightCupWeight * sim
		weightSum += run.cfg.HeightCupWeight
	}

	if weightSum == 0 {
		return 0, false
	}
	sim := weighted / weightSum
	if sim < run.cfg.MinSimilarityScore {
		return 0, false
	}
	return sim, true
}

// scorePerformerTags measures Jaccard overlap between the candidate's tags
// and the preferred tag set. The threshold is the generic similarity floor
// scaled down by the tag ratio.
func scorePerformerTags(p *models.Performer, run *performerRun) (float64, bool) {
	sim, ok := jaccard(p.TagNameSet(), run.profile.PreferredTags)
	if !ok {
		return 0, false
	}
	if sim < run.cfg.MinSimilarityScore*run.cfg.TagThresholdRatio {
		return 0, false
	}
	return sim, true
}

// scoreAge only admits candidates within the tolerance window of the
// reference average age; outside the window the candidate is excluded
// entirely rather than decayed to zero.
func scoreAge(p *models.Performer, run *performerRun) (float64, bool) {
	if !run.profile.HasAge || p.Age == nil {
		return 0, false
	}
	diff := float64(*p.Age) - run.profile.AvgAge
	if diff < 0 {
		diff = -diff
	}
	if diff > run.cfg.AgeTolerance {
		return 0, false
	}
	return 1 - diff/run.cfg.AgeTolerance, true
}

func scorePerformerQuality(p *models.Performer, run *performerRun) (float64, bool) {
	return qualityScore(p.Rating100, run.cfg.MinRating)
}

func scorePerformerNovelty(p *models.Performer, run *performerRun) (float64, bool) {
	return noveltyScore(run.now, p.CreatedAt, run.cfg.NoveltyDays)
}

// scoreVersatility normalizes the candidate's distinct-tag count by the pool
// maximum for this run.
func scoreVersatility(p *models.Performer, run *performerRun) (float64, bool) {
	if run.poolMaxTags == 0 {
		return 0, false
	}
	n := len(p.TagNameSet())
	if n == 0 {
		return 0, false
	}
	return float64(n) / float64(run.poolMaxTags), true
}

// scoreFavoriteSimilarity computes a combined weighted similarity between
// the candidate and each reference performer individually, keeping the best.
// The combination reuses the category weights as per-criterion weights and
// normalizes by whichever criteria were computable for the pair, so sparse
// records compare on the attributes they do have.
func scoreFavoriteSimilarity(p *models.Performer, run *performerRun) (float64, bool) {
	if run.profile.Empty() {
		return 0, false
	}

	best := -1.0
	for _, ref := range run.profile.Reference {
		sim, ok := pairSimilarity(p, ref, run.cfg)
		if ok && sim > best {
			best = sim
		}
	}
	if best < 0 || best < run.cfg.FavoriteSimilarityThreshold {
		return 0, false
	}
	return best, true
}

// pairSimilarity scores one candidate against one reference performer across
// cup size, proportions, tags, and age.
func pairSimilarity(p, ref *models.Performer, cfg *PerformerConfig) (float64, bool) {
	var weighted, weightSum float64

	if p.CupNumeric > 0 && ref.CupNumeric > 0 && cfg.Weights.CupSize > 0 {
		sim := decaySimilarity(float64(p.CupNumeric), float64(ref.CupNumeric), cfg.MaxCupDifference)
		weighted += cfg.Weights.CupSize * sim
		weightSum += cfg.Weights.CupSize
	}

	if sim, ok := pairProportions(p, ref, cfg); ok && cfg.Weights.Proportions > 0 {
		weighted += cfg.Weights.Proportions * sim
		weightSum += cfg.Weights.Proportions
	}

	if sim, ok := jaccard(p.TagNameSet(), ref.TagNameSet()); ok && cfg.Weights.Tags > 0 {
		weighted += cfg.Weights.Tags * sim
		weightSum += cfg.Weights.Tags
	}

	if p.Age != nil && ref.Age != nil && cfg.Weights.Age > 0 {
		sim := decaySimilarity(float64(*p.Age), float64(*ref.Age), cfg.AgeTolerance)
		weighted += cfg.Weights.Age * sim
		weightSum += cfg.Weights.Age
	}

	if weightSum == 0 {
		return 0, false
	}
	return weighted / weightSum, true
}

// pairProportions mirrors scoreProportions for a single reference performer
// instead of the profile average.
func pairProportions(p, ref *models.Performer, cfg *PerformerConfig) (float64, bool) {
	var weighted, weightSum float64

	if p.BMIToCupRatio != nil && ref.BMIToCupRatio != nil && cfg.BMICupWeight > 0 {
		sim := decaySimilarity(*p.BMIToCupRatio, *ref.BMIToCupRatio, cfg.MaxBMICupDifference)
		weighted += cfg.BMICupWeight * sim
		weightSum += cfg.BMICupWeight
	}
	if p.HeightToCupRatio != nil && ref.HeightToCupRatio != nil && cfg.HeightCupWeight > 0 {
		sim := decaySimilarity(*p.HeightToCupRatio, *ref.HeightToCupRatio, cfg.MaxHeightCupDifference)
		weighted += cfg.HeightCupWeight * sim
		weightSum += cfg.HeightCupWeight
	}

	if weightSum == 0 {
		return 0, false
	}
	return weighted / weightSum, true
}

// buildPerformerResult serializes the run into the downstream contract.
func buildPerformerResult(profile *PerformerProfile, run *performerRun, categories map[string][]ScoredPerformer, top []ScoredPerformer, now time.Time) *Result {
	result := &Result{
		Variant:        VariantPerformer,
		GeneratedAt:    now,
		ReferenceCount: len(profile.Reference),
		FallbackUsed:   profile.FallbackUsed,
		CandidateCount: len(run.candidates),
		Categories:     make(map[string][]CategoryEntry, len(categories)),
		Top:            make([]CategoryEntry, 0, len(top)),
	}
	for name, entries := range categories {
		result.Categories[name] = performerEntries(entries)
	}
	result.Top = performerEntries(top)
	return result
}

func performerEntries(scored []ScoredPerformer) []CategoryEntry {
	entries := make([]CategoryEntry, 0, len(scored))
	for _, s := range scored {
		entries = append(entries, CategoryEntry{
			ID:    s.Performer.ID,
			Name:  s.Performer.Name,
			Score: s.Score,
		})
	}
	return entries
}
