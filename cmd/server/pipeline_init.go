// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/curatarr/internal/config"
	"github.com/tomtom215/curatarr/internal/export"
	"github.com/tomtom215/curatarr/internal/logging"
	"github.com/tomtom215/curatarr/internal/notify"
	"github.com/tomtom215/curatarr/internal/recommend"
	"github.com/tomtom215/curatarr/internal/refresh"
	"github.com/tomtom215/curatarr/internal/stash"
	"github.com/tomtom215/curatarr/internal/stats"
	"github.com/tomtom215/curatarr/internal/trigger"
)

// initPipeline builds the refresh pipeline: detector, optional computation
// components, exporter, notifier, and the manager coordinating them.
//
// Disabled sections are wired as nil; the manager skips them and their API
// endpoints answer 404. Configuration for enabled sections was already
// validated by config.Load, so a constructor failure here is fatal.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initPipeline(cfg *config.Config, client stash.API, store *trigger.Store, logger zerolog.Logger) *refresh.Manager {
	detector := trigger.NewDetector(store, &cfg.Refresh, logger)

	var collector *stats.Collector
	if cfg.Stats.Enabled {
		var err error
		collector, err = stats.New(buildStatsConfig(&cfg.Stats), logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create stats collector")
		}
	} else {
		logging.Info().Msg("Statistics disabled (stats.enabled=false)")
	}

	var performerEngine *recommend.PerformerEngine
	if cfg.Recommend.Performer.Enabled {
		var err error
		performerEngine, err = recommend.NewPerformerEngine(buildPerformerConfig(&cfg.Recommend.Performer), logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create performer recommendation engine")
		}
	} else {
		logging.Info().Msg("Performer recommendations disabled (recommend.performer.enabled=false)")
	}

	var sceneEngine *recommend.SceneEngine
	if cfg.Recommend.Scene.Enabled {
		var err error
		sceneEngine, err = recommend.NewSceneEngine(buildSceneConfig(&cfg.Recommend.Scene), logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create scene recommendation engine")
		}
	} else {
		logging.Info().Msg("Scene recommendations disabled (recommend.scene.enabled=false)")
	}

	// Exporter and notifier gate on their own enabled flags internally.
	exporter := export.NewWriter(&cfg.Export, logger)
	if exporter.Enabled() {
		logging.Info().
			Str("output_dir", cfg.Export.OutputDir).
			Bool("csv", cfg.Export.CSVEnabled).
			Msg("JSON exports enabled")
	}
	notifier := notify.NewDiscordNotifier(&cfg.Notify.Discord, logger)
	if notifier.Enabled() {
		logging.Info().Msg("Discord notifications enabled")
	}

	return refresh.NewManager(client, detector, collector, performerEngine, sceneEngine,
		exporter, notifier, &cfg.Refresh, logger)
}

// buildStatsConfig creates the collector configuration from app config.
func buildStatsConfig(cfg *config.StatsConfig) stats.Config {
	return stats.Config{
		TopListSize:   cfg.TopListSize,
		MinDataPoints: cfg.MinDataPoints,
	}
}

// buildPerformerConfig creates the performer engine configuration from app
// config.
func buildPerformerConfig(cfg *config.PerformerRecommendConfig) recommend.PerformerConfig {
	return recommend.PerformerConfig{
		MaxRecommendations:          cfg.MaxRecommendations,
		MinSimilarityScore:          cfg.MinSimilarityScore,
		IncludeZeroUsage:            cfg.IncludeZeroUsage,
		FallbackTopK:                cfg.FallbackTopK,
		MaxCupDifference:            cfg.MaxCupDifference,
		BMICupWeight:                cfg.BMICupWeight,
		HeightCupWeight:             cfg.HeightCupWeight,
		MaxBMICupDifference:         cfg.MaxBMICupDifference,
		MaxHeightCupDifference:      cfg.MaxHeightCupDifference,
		TagThresholdRatio:           cfg.TagThresholdRatio,
		AgeTolerance:                cfg.AgeTolerance,
		NoveltyDays:                 cfg.NoveltyDays,
		MinRating:                   cfg.MinRating,
		FavoriteSimilarityThreshold: cfg.FavoriteSimilarityThreshold,
		MinRatingForPreference:      cfg.MinRatingForPreference,
		MinUsageForPreference:       cfg.MinUsageForPreference,
		MinPreferenceOccurrence:     cfg.MinPreferenceOccurrence,
		Weights: recommend.PerformerWeights{
			CupSize:     cfg.Weights.CupSize,
			Proportions: cfg.Weights.Proportions,
			Tags:        cfg.Weights.Tags,
			Age:         cfg.Weights.Age,
			Quality:     cfg.Weights.Quality,
			Novelty:     cfg.Weights.Novelty,
			Versatility: cfg.Weights.Versatility,
			Favorites:   cfg.Weights.Favorites,
		},
	}
}

// buildSceneConfig creates the scene engine configuration from app config.
func buildSceneConfig(cfg *config.SceneRecommendConfig) recommend.SceneConfig {
	return recommend.SceneConfig{
		MaxRecommendations:      cfg.MaxRecommendations,
		MinRating:               cfg.MinRating,
		NoveltyDays:             cfg.NoveltyDays,
		MinTagSimilarity:        cfg.MinTagSimilarity,
		MinRatingForPreference:  cfg.MinRatingForPreference,
		MinPlaysForPreference:   cfg.MinPlaysForPreference,
		MinPreferenceOccurrence: cfg.MinPreferenceOccurrence,
		Weights: recommend.SceneWeights{
			TagSimilarity:  cfg.Weights.TagSimilarity,
			PerformerMatch: cfg.Weights.PerformerMatch,
			StudioMatch:    cfg.Weights.StudioMatch,
			Quality:        cfg.Weights.Quality,
			Novelty:        cfg.Weights.Novelty,
			TopRated:       cfg.Weights.TopRated,
		},
	}
}
