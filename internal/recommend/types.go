// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package recommend

import (
	"time"

	"github.com/tomtom215/curatarr/internal/models"
)

// Performer category names. Each names one criterion and the result list it
// produces.
const (
	// CategorySimilarCupSize scores proximity to the reference set's average
	// numeric cup size.
	CategorySimilarCupSize = "similar_cup_size"

	// CategorySimilarProportions scores proximity to the reference set's
	// average BMI-to-cup and height-to-cup ratios.
	CategorySimilarProportions = "similar_proportions"

	// CategorySimilarTags scores Jaccard overlap with the preferred tag set.
	CategorySimilarTags = "similar_tags"

	// CategorySimilarAge scores age proximity within a hard tolerance window.
	CategorySimilarAge = "similar_age"

	// CategoryHighQuality rescales the performer's own rating, subject to a floor.
	CategoryHighQuality = "high_quality"

	// CategoryNovelty rewards performers recently added to the library.
	CategoryNovelty = "novelty"

	// CategoryVersatile scores distinct-tag count relative to the pool maximum.
	CategoryVersatile = "versatile"

	// CategorySimilarToFavorites scores the best combined similarity against
	// any single reference performer.
	CategorySimilarToFavorites = "similar_to_favorites"
)

// Scene category names.
const (
	// CategoryTagSimilarity scores Jaccard overlap with the preferred tag set.
	CategoryTagSimilarity = "tag_similarity"

	// CategoryFavoritePerformers marks scenes featuring a favorite performer.
	CategoryFavoritePerformers = "favorite_performers"

	// CategoryPreferredStudios marks scenes from a preferred studio.
	CategoryPreferredStudios = "preferred_studios"

	// CategoryHighQualityUnwatched rescales the scene's own rating, subject
	// to a floor.
	CategoryHighQualityUnwatched = "high_quality_unwatched"

	// CategoryNoveltyUnwatched rewards scenes recently added to the library.
	CategoryNoveltyUnwatched = "novelty_unwatched"

	// CategoryTopUnwatched ranks all rated unwatched scenes; its list cap is
	// twice the per-category maximum.
	CategoryTopUnwatched = "top_unwatched_overall"
)

// PerformerCategories returns the performer category names in their
// processing order. The order fixes score accumulation for determinism.
func PerformerCategories() []string {
	return []string{
		CategorySimilarCupSize,
		CategorySimilarProportions,
		CategorySimilarTags,
		CategorySimilarAge,
		CategoryHighQuality,
		CategoryNovelty,
		CategoryVersatile,
		CategorySimilarToFavorites,
	}
}

// SceneCategories returns the scene category names in their processing order.
func SceneCategories() []string {
	return []string{
		CategoryTagSimilarity,
		CategoryFavoritePerformers,
		CategoryPreferredStudios,
		CategoryHighQualityUnwatched,
		CategoryNoveltyUnwatched,
		CategoryTopUnwatched,
	}
}

// ScoredPerformer pairs a performer with its score in one category or in the
// overall ranking.
type ScoredPerformer struct {
	Performer *models.Performer `json:"performer"`
	Score     float64           `json:"score"`
}

// ScoredScene pairs a scene with its score in one category or in the overall
// ranking.
type ScoredScene struct {
	Scene *models.Scene `json:"scene"`
	Score float64       `json:"score"`
}

// CategoryEntry is the serialized form of one scored entity. This shape is
// the only contract downstream consumers (API, export, notifications)
// depend on.
type CategoryEntry struct {
	// ID is the entity identifier in Stash.
	ID string `json:"id"`

	// Name is the display name: performer name or scene title.
	Name string `json:"name"`

	// Score is the criterion score in a category list, or the weighted
	// aggregate in the top list.
	Score float64 `json:"score"`
}

// Result is the serialized output of one engine run.
type Result struct {
	// Variant is "performer" or "scene".
	Variant string `json:"variant"`

	// GeneratedAt is the reference time the run was computed against.
	GeneratedAt time.Time `json:"generated_at"`

	// ReferenceCount is the size of the reference set the profile was built
	// from.
	ReferenceCount int `json:"reference_count"`

	// FallbackUsed reports that no favorites existed and top-rated entities
	// stood in as the reference set.
	FallbackUsed bool `json:"fallback_used,omitempty"`

	// CandidateCount is the size of the candidate pool after exclusions.
	CandidateCount int `json:"candidate_count"`

	// Categories holds one ordered entry list per category name. Categories
	// with no qualifying candidates are present and empty.
	Categories map[string][]CategoryEntry `json:"categories"`

	// Top is the cross-category weighted ranking.
	Top []CategoryEntry `json:"top_recommendations"`
}

// CategoryCount returns how many categories produced at least one entry.
func (r *Result) CategoryCount() int {
	n := 0
	for _, entries := range r.Categories {
		if len(entries) > 0 {
			n++
		}
	}
	return n
}

// TotalEntries returns the summed length of all category lists.
func (r *Result) TotalEntries() int {
	n := 0
	for _, entries := range r.Categories {
		n += len(entries)
	}
	return n
}

// Variant names used in Result.Variant and metric labels.
const (
	VariantPerformer = "performer"
	VariantScene     = "scene"
)
