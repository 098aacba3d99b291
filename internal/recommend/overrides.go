// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package recommend

import (
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curatarr/internal/logging"
)

// WeightOverridePrefix marks override keys in caller-supplied parameter
// maps, e.g. weight_tags=0.9.
const WeightOverridePrefix = "weight_"

// Overrides carries per-run tuning supplied by a caller, typically parsed
// from query parameters. The zero value applies nothing. Overrides only
// ever touch a per-run copy of the engine configuration.
type Overrides struct {
	// Weights maps category names to replacement ranking weights.
	Weights map[string]float64
}

// Empty reports whether the overrides change nothing. Callers serve cached
// results instead of paying for a fresh run when it returns true.
func (o Overrides) Empty() bool {
	return len(o.Weights) == 0
}

// performerWeightAliases maps accepted override keys (the part after the
// weight_ prefix) to performer category names. Full category names are
// accepted alongside the short configuration spellings.
var performerWeightAliases = map[string]string{
	"cup_size":             CategorySimilarCupSize,
	"similar_cup_size":     CategorySimilarCupSize,
	"proportions":          CategorySimilarProportions,
	"similar_proportions":  CategorySimilarProportions,
	"tags":                 CategorySimilarTags,
	"similar_tags":         CategorySimilarTags,
	"age":                  CategorySimilarAge,
	"similar_age":          CategorySimilarAge,
	"quality":              CategoryHighQuality,
	"high_quality":         CategoryHighQuality,
	"novelty":              CategoryNovelty,
	"versatility":          CategoryVersatile,
	"versatile":            CategoryVersatile,
	"favorites":            CategorySimilarToFavorites,
	"similar_to_favorites": CategorySimilarToFavorites,
}

// sceneWeightAliases maps accepted override keys to scene category names.
var sceneWeightAliases = map[string]string{
	"tag_similarity":         CategoryTagSimilarity,
	"performer_match":        CategoryFavoritePerformers,
	"favorite_performers":    CategoryFavoritePerformers,
	"studio_match":           CategoryPreferredStudios,
	"preferred_studios":      CategoryPreferredStudios,
	"high_quality":           CategoryHighQualityUnwatched,
	"high_quality_unwatched": CategoryHighQualityUnwatched,
	"novelty":                CategoryNoveltyUnwatched,
	"novelty_unwatched":      CategoryNoveltyUnwatched,
	"low_o_counter":          CategoryTopUnwatched,
	"top_rated":              CategoryTopUnwatched,
	"top_unwatched_overall":  CategoryTopUnwatched,
}

// ParsePerformerOverrides extracts weight overrides for the performer engine
// from a flat parameter map. Unknown or unparsable entries are logged at
// warn level and dropped; they never fail the run.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func ParsePerformerOverrides(params map[string]string, logger zerolog.Logger) Overrides {
	return parseOverrides(params, performerWeightAliases, logger)
}

// ParseSceneOverrides extracts weight overrides for the scene engine.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func ParseSceneOverrides(params map[string]string, logger zerolog.Logger) Overrides {
	return parseOverrides(params, sceneWeightAliases, logger)
}

func parseOverrides(params map[string]string, aliases map[string]string, logger zerolog.Logger) Overrides {
	var ov Overrides
	for _, key := range sortedKeys(params) {
		if !strings.HasPrefix(key, WeightOverridePrefix) {
			continue
		}
		category, ok := aliases[strings.TrimPrefix(key, WeightOverridePrefix)]
		if !ok {
			// Keys and values come straight from the query string, so they
			// are sanitized before logging.
			logger.Warn().Str("key", logging.SanitizeLogValue(key)).Msg("unknown weight override ignored")
			continue
		}
		value, err := strconv.ParseFloat(params[key], 64)
		if err != nil {
			logger.Warn().Str("key", key).Str("value", logging.SanitizeLogValue(params[key])).Msg("unparsable weight override ignored")
			continue
		}
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			logger.Warn().Str("key", key).Float64("value", value).Msg("out-of-range weight override ignored")
			continue
		}
		if ov.Weights == nil {
			ov.Weights = make(map[string]float64)
		}
		ov.Weights[category] = value
	}
	return ov
}

// applyPerformer writes the overrides into a per-run config copy.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func (o Overrides) applyPerformer(cfg *PerformerConfig, logger zerolog.Logger) {
	for _, name := range sortedKeys(o.Weights) {
		w := o.Weights[name]
		switch name {
		case CategorySimilarCupSize:
			cfg.Weights.CupSize = w
		case CategorySimilarProportions:
			cfg.Weights.Proportions = w
		case CategorySimilarTags:
			cfg.Weights.Tags = w
		case CategorySimilarAge:
			cfg.Weights.Age = w
		case CategoryHighQuality:
			cfg.Weights.Quality = w
		case CategoryNovelty:
			cfg.Weights.Novelty = w
		case CategoryVersatile:
			cfg.Weights.Versatility = w
		case CategorySimilarToFavorites:
			cfg.Weights.Favorites = w
		default:
			logger.Warn().Str("category", name).Msg("weight override for unknown performer category ignored")
			continue
		}
		logger.Debug().Str("category", name).Float64("weight", w).Msg("weight override applied")
	}
}

// applyScene writes the overrides into a per-run config copy.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func (o Overrides) applyScene(cfg *SceneConfig, logger zerolog.Logger) {
	for _, name := range sortedKeys(o.Weights) {
		w := o.Weights[name]
		switch name {
		case CategoryTagSimilarity:
			cfg.Weights.TagSimilarity = w
		case CategoryFavoritePerformers:
			cfg.Weights.PerformerMatch = w
		case CategoryPreferredStudios:
			cfg.Weights.StudioMatch = w
		case CategoryHighQualityUnwatched:
			cfg.Weights.Quality = w
		case CategoryNoveltyUnwatched:
			cfg.Weights.Novelty = w
		case CategoryTopUnwatched:
			cfg.Weights.TopRated = w
		default:
			logger.Warn().Str("category", name).Msg("weight override for unknown scene category ignored")
			continue
		}
		logger.Debug().Str("category", name).Float64("weight", w).Msg("weight override applied")
	}
}
