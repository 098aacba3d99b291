// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package recommend

import (
	"fmt"
)

// PerformerConfig contains all tuning for the performer engine. The zero
// value is not usable; start from DefaultPerformerConfig. The struct holds
// no reference types, so plain assignment produces an independent copy.
type PerformerConfig struct {
	// MaxRecommendations caps each category list and the overall ranking.
	// Default: 10
	MaxRecommendations int `json:"max_recommendations"`

	// MinSimilarityScore is the inclusion threshold for the proximity
	// categories (cup size, proportions). The tag category uses
	// MinSimilarityScore scaled by TagThresholdRatio.
	// Default: 0.75
	MinSimilarityScore float64 `json:"min_similarity_score"`

	// IncludeZeroUsage widens the candidate pool to performers with play
	// history. When false only never-played performers are eligible.
	// Default: true
	IncludeZeroUsage bool `json:"include_zero_usage"`

	// FallbackTopK is how many top-rated performers stand in as the
	// reference set when the library has no favorites.
	// Default: 5
	FallbackTopK int `json:"fallback_top_k"`

	// MaxCupDifference is the numeric cup distance at which cup similarity
	// decays to zero.
	// Default: 4
	MaxCupDifference float64 `json:"max_cup_difference"`

	// BMICupWeight weights the BMI-to-cup component of the proportions score.
	// Default: 0.2
	BMICupWeight float64 `json:"bmi_cup_weight"`

	// HeightCupWeight weights the height-to-cup component of the proportions score.
	// Default: 0.2
	HeightCupWeight float64 `json:"height_cup_weight"`

	// MaxBMICupDifference is the BMI-to-cup ratio distance at which that
	// component decays to zero.
	// Default: 5
	MaxBMICupDifference float64 `json:"max_bmi_cup_difference"`

	// MaxHeightCupDifference is the height-to-cup ratio distance at which
	// that component decays to zero.
	// Default: 50
	MaxHeightCupDifference float64 `json:"max_height_cup_difference"`

	// TagThresholdRatio scales MinSimilarityScore into the similar_tags
	// cutoff. Tag overlap rarely reaches proximity-level scores, so the tag
	// category runs on a slightly lower bar.
	// Default: 0.8
	TagThresholdRatio float64 `json:"tag_threshold_ratio"`

	// AgeTolerance is the age difference in years beyond which a candidate
	// is excluded from similar_age outright.
	// Default: 5
	AgeTolerance float64 `json:"age_tolerance"`

	// NoveltyDays is the window in which a newly added performer counts as
	// novel. Performers added earlier are excluded, not scored zero.
	// Default: 30
	NoveltyDays int `json:"novelty_days"`

	// MinRating is the 0-100 rating floor for high_quality.
	// Default: 60
	MinRating int `json:"min_rating"`

	// FavoriteSimilarityThreshold is the minimum combined similarity to any
	// single reference performer for similar_to_favorites.
	// Default: 0.7
	FavoriteSimilarityThreshold float64 `json:"favorite_similarity_threshold"`

	// MinRatingForPreference is the 0-100 rating at which a performer joins
	// the high-signal set the preferred tags are counted over.
	// Default: 60
	MinRatingForPreference int `json:"min_rating_for_preference"`

	// MinUsageForPreference is the play count at which a performer joins the
	// high-signal set.
	// Default: 1
	MinUsageForPreference int `json:"min_usage_for_preference"`

	// MinPreferenceOccurrence is how often a tag must appear across the
	// high-signal set to count as preferred.
	// Default: 1
	MinPreferenceOccurrence int `json:"min_preference_occurrence"`

	// Weights are the per-category multipliers for the cross-category
	// ranking. A zero weight drops the category from the overall ranking
	// without disabling its list.
	Weights PerformerWeights `json:"weights"`
}

// PerformerWeights holds the per-category ranking weights.
type PerformerWeights struct {
	// CupSize weights similar_cup_size. Default: 0.4
	CupSize float64 `json:"cup_size"`

	// Proportions weights similar_proportions. Default: 0.2
	Proportions float64 `json:"proportions"`

	// Tags weights similar_tags. Default: 0.6
	Tags float64 `json:"tags"`

	// Age weights similar_age. Default: 0.4
	Age float64 `json:"age"`

	// Quality weights high_quality. Default: 0.5
	Quality float64 `json:"quality"`

	// Novelty weights novelty. Default: 0.3
	Novelty float64 `json:"novelty"`

	// Versatility weights versatile. Default: 0.4
	Versatility float64 `json:"versatility"`

	// Favorites weights similar_to_favorites. Default: 0.7
	Favorites float64 `json:"favorites"`
}

// ToMap returns the weights keyed by category name.
func (w PerformerWeights) ToMap() map[string]float64 {
	return map[string]float64{
		CategorySimilarCupSize:     w.CupSize,
		CategorySimilarProportions: w.Proportions,
		CategorySimilarTags:        w.Tags,
		CategorySimilarAge:         w.Age,
		CategoryHighQuality:        w.Quality,
		CategoryNovelty:            w.Novelty,
		CategoryVersatile:          w.Versatility,
		CategorySimilarToFavorites: w.Favorites,
	}
}

// DefaultPerformerConfig returns the calibrated performer engine defaults.
func DefaultPerformerConfig() PerformerConfig {
	return PerformerConfig{
		MaxRecommendations:          10,
		MinSimilarityScore:          0.75,
		IncludeZeroUsage:            true,
		FallbackTopK:                5,
		MaxCupDifference:            4,
		BMICupWeight:                0.2,
		HeightCupWeight:             0.2,
		MaxBMICupDifference:         5,
		MaxHeightCupDifference:      50,
		TagThresholdRatio:           0.8,
		AgeTolerance:                5,
		NoveltyDays:                 30,
		MinRating:                   60,
		FavoriteSimilarityThreshold: 0.7,
		MinRatingForPreference:      60,
		MinUsageForPreference:       1,
		MinPreferenceOccurrence:     1,
		Weights: PerformerWeights{
			CupSize:     0.4,
			Proportions: 0.2,
			Tags:        0.6,
			Age:         0.4,
			Quality:     0.5,
			Novelty:     0.3,
			Versatility: 0.4,
			Favorites:   0.7,
		},
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *PerformerConfig) Validate() error {
	if c.MaxRecommendations <= 0 {
		return fmt.Errorf("max_recommendations must be positive, got %d", c.MaxRecommendations)
	}
	if c.MinSimilarityScore < 0 || c.MinSimilarityScore > 1 {
		return fmt.Errorf("min_similarity_score must be in [0,1], got %g", c.MinSimilarityScore)
	}
	if c.FallbackTopK <= 0 {
		return fmt.Errorf("fallback_top_k must be positive, got %d", c.FallbackTopK)
	}
	if c.MaxCupDifference <= 0 {
		return fmt.Errorf("max_cup_difference must be positive, got %g", c.MaxCupDifference)
	}
	if c.BMICupWeight < 0 || c.HeightCupWeight < 0 {
		return fmt.Errorf("proportion component weights must not be negative, got bmi=%g height=%g",
			c.BMICupWeight, c.HeightCupWeight)
	}
	if c.BMICupWeight == 0 && c.HeightCupWeight == 0 {
		return fmt.Errorf("bmi_cup_weight and height_cup_weight must not both be zero")
	}
	if c.MaxBMICupDifference <= 0 {
		return fmt.Errorf("max_bmi_cup_difference must be positive, got %g", c.MaxBMICupDifference)
	}
	if c.MaxHeightCupDifference <= 0 {
		return fmt.Errorf("max_height_cup_difference must be positive, got %g", c.MaxHeightCupDifference)
	}
	if c.TagThresholdRatio < 0 || c.TagThresholdRatio > 1 {
		return fmt.Errorf("tag_threshold_ratio must be in [0,1], got %g", c.TagThresholdRatio)
	}
	if c.AgeTolerance <= 0 {
		return fmt.Errorf("age_tolerance must be positive, got %g", c.AgeTolerance)
	}
	if c.NoveltyDays <= 0 {
		return fmt.Errorf("novelty_days must be positive, got %d", c.NoveltyDays)
	}
	if c.MinRating < 0 || c.MinRating > 100 {
		return fmt.Errorf("min_rating must be in [0,100], got %d", c.MinRating)
	}
	if c.FavoriteSimilarityThreshold < 0 || c.FavoriteSimilarityThreshold > 1 {
		return fmt.Errorf("favorite_similarity_threshold must be in [0,1], got %g", c.FavoriteSimilarityThreshold)
	}
	if c.MinRatingForPreference < 0 || c.MinRatingForPreference > 100 {
		return fmt.Errorf("min_rating_for_preference must be in [0,100], got %d", c.MinRatingForPreference)
	}
	if c.MinUsageForPreference < 1 {
		return fmt.Errorf("min_usage_for_preference must be at least 1, got %d", c.MinUsageForPreference)
	}
	if c.MinPreferenceOccurrence < 1 {
		return fmt.Errorf("min_preference_occurrence must be at least 1, got %d", c.MinPreferenceOccurrence)
	}
	return validateWeights(c.Weights.ToMap())
}

// SceneConfig contains all tuning for the scene engine. The struct holds no
// reference types, so plain assignment produces an independent copy.
type SceneConfig struct {
	// MaxRecommendations caps each category list and the overall ranking.
	// The top_unwatched_overall list is allowed twice this cap.
	// Default: 15
	MaxRecommendations int `json:"max_recommendations"`

	// MinRating is the 0-100 rating floor for high_quality_unwatched.
	// Default: 60
	MinRating int `json:"min_rating"`

	// NoveltyDays is the window in which a newly added scene counts as novel.
	// Default: 30
	NoveltyDays int `json:"novelty_days"`

	// MinTagSimilarity is the Jaccard cutoff for tag_similarity.
	// Default: 0.3
	MinTagSimilarity float64 `json:"min_tag_similarity"`

	// MinRatingForPreference is the 0-100 rating at which a scene joins the
	// high-signal set preferences are counted over.
	// Default: 75
	MinRatingForPreference int `json:"min_rating_for_preference"`

	// MinPlaysForPreference is the play count at which a scene counts as
	// watched.
	// Default: 1
	MinPlaysForPreference int `json:"min_plays_for_preference"`

	// MinPreferenceOccurrence is how often a tag or studio must appear
	// across high-signal scenes to count as preferred.
	// Default: 2
	MinPreferenceOccurrence int `json:"min_preference_occurrence"`

	// Weights are the per-category multipliers for the cross-category ranking.
	Weights SceneWeights `json:"weights"`
}

// SceneWeights holds the per-category ranking weights.
type SceneWeights struct {
	// TagSimilarity weights tag_similarity. Default: 0.7
	TagSimilarity float64 `json:"tag_similarity"`

	// PerformerMatch weights favorite_performers. Default: 0.8
	PerformerMatch float64 `json:"performer_match"`

	// StudioMatch weights preferred_studios. Default: 0.3
	StudioMatch float64 `json:"studio_match"`

	// Quality weights high_quality_unwatched. Default: 0.5
	Quality float64 `json:"quality"`

	// Novelty weights novelty_unwatched. Default: 0.4
	Novelty float64 `json:"novelty"`

	// TopRated weights top_unwatched_overall. Default: 0.2
	TopRated float64 `json:"top_rated"`
}

// ToMap returns the weights keyed by category name.
func (w SceneWeights) ToMap() map[string]float64 {
	return map[string]float64{
		CategoryTagSimilarity:        w.TagSimilarity,
		CategoryFavoritePerformers:   w.PerformerMatch,
		CategoryPreferredStudios:     w.StudioMatch,
		CategoryHighQualityUnwatched: w.Quality,
		CategoryNoveltyUnwatched:     w.Novelty,
		CategoryTopUnwatched:         w.TopRated,
	}
}

// DefaultSceneConfig returns the calibrated scene engine defaults.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		MaxRecommendations:      15,
		MinRating:               60,
		NoveltyDays:             30,
		MinTagSimilarity:        0.3,
		MinRatingForPreference:  75,
		MinPlaysForPreference:   1,
		MinPreferenceOccurrence: 2,
		Weights: SceneWeights{
			TagSimilarity:  0.7,
			PerformerMatch: 0.8,
			StudioMatch:    0.3,
			Quality:        0.5,
			Novelty:        0.4,
			TopRated:       0.2,
		},
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c *SceneConfig) Validate() error {
	if c.MaxRecommendations <= 0 {
		return fmt.Errorf("max_recommendations must be positive, got %d", c.MaxRecommendations)
	}
	if c.MinRating < 0 || c.MinRating > 100 {
		return fmt.Errorf("min_rating must be in [0,100], got %d", c.MinRating)
	}
	if c.NoveltyDays <= 0 {
		return fmt.Errorf("novelty_days must be positive, got %d", c.NoveltyDays)
	}
	if c.MinTagSimilarity < 0 || c.MinTagSimilarity > 1 {
		return fmt.Errorf("min_tag_similarity must be in [0,1], got %g", c.MinTagSimilarity)
	}
	if c.MinRatingForPreference < 0 || c.MinRatingForPreference > 100 {
		return fmt.Errorf("min_rating_for_preference must be in [0,100], got %d", c.MinRatingForPreference)
	}
	if c.MinPlaysForPreference < 1 {
		return fmt.Errorf("min_plays_for_preference must be at least 1, got %d", c.MinPlaysForPreference)
	}
	if c.MinPreferenceOccurrence < 1 {
		return fmt.Errorf("min_preference_occurrence must be at least 1, got %d", c.MinPreferenceOccurrence)
	}
	return validateWeights(c.Weights.ToMap())
}

// validateWeights rejects negative category weights. Zero is allowed and
// removes the category from the overall ranking.
func validateWeights(weights map[string]float64) error {
	for _, name := range sortedKeys(weights) {
		if weights[name] < 0 {
			return fmt.Errorf("weight for %s must not be negative, got %g", name, weights[name])
		}
	}
	return nil
}
