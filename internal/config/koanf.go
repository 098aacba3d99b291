// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"config/config.yaml",
	"/config/config.yaml",
	"/etc/curatarr/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Stash: StashConfig{
			URL:            "",
			APIKey:         "",
			Timeout:        30 * time.Second,
			PageSize:       100,
			RateLimit:      10,
			RateBurst:      5,
			BreakerEnabled: true,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            9998,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Store: StoreConfig{
			Path:     "./data",
			InMemory: false,
		},
		Refresh: RefreshConfig{
			Interval:            6 * time.Hour,
			RunOnStartup:        true,
			ForceUpdateInterval: 168 * time.Hour, // 7 days, picks up novelty decay
			Timeout:             10 * time.Minute,
		},
		Recommend: RecommendConfig{
			Performer: PerformerRecommendConfig{
				Enabled:                     true,
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
			},
			Scene: SceneRecommendConfig{
				Enabled:                 true,
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
			},
		},
		Stats: StatsConfig{
			Enabled:       true,
			TopListSize:   10,
			MinDataPoints: 5,
		},
		Notify: NotifyConfig{
			Discord: DiscordConfig{
				Enabled:     false,
				WebhookURL:  "",
				Username:    "Curatarr",
				MinInterval: time.Minute,
				TopCount:    5,
				Timeout:     10 * time.Second,
			},
		},
		Export: ExportConfig{
			Enabled:    true,
			OutputDir:  "./output",
			CSVEnabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using the Koanf v2 library with layered
// sources: struct defaults, then an optional YAML file, then environment
// variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// STASH_URL -> stash.url
	// RECOMMEND_PERFORMER_AGE_TOLERANCE -> recommend.performer.age_tolerance
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// fields that callers may set via environment variables.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - STASH_URL -> stash.url
//   - STASH_API_KEY -> stash.api_key
//   - REFRESH_INTERVAL -> refresh.interval
//   - RECOMMEND_PERFORMER_WEIGHT_CUP_SIZE -> recommend.performer.weights.cup_size
//   - SERVER_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Stash data source
		"stash_url":             "stash.url",
		"stash_api_key":         "stash.api_key",
		"stash_timeout":         "stash.timeout",
		"stash_page_size":       "stash.page_size",
		"stash_rate_limit":      "stash.rate_limit",
		"stash_rate_burst":      "stash.rate_burst",
		"stash_breaker_enabled": "stash.breaker_enabled",

		// HTTP server
		"server_host":             "server.host",
		"server_port":             "server.port",
		"server_read_timeout":     "server.read_timeout",
		"server_write_timeout":    "server.write_timeout",
		"server_shutdown_timeout": "server.shutdown_timeout",
		"server_cors_origins":     "server.cors_origins",

		// Fingerprint store
		"store_path":      "store.path",
		"store_in_memory": "store.in_memory",

		// Refresh pipeline
		"refresh_interval":              "refresh.interval",
		"refresh_run_on_startup":        "refresh.run_on_startup",
		"refresh_force_update_interval": "refresh.force_update_interval",
		"refresh_timeout":               "refresh.timeout",

		// Performer recommendations
		"recommend_performer_enabled":                       "recommend.performer.enabled",
		"recommend_performer_max_recommendations":           "recommend.performer.max_recommendations",
		"recommend_performer_min_similarity_score":          "recommend.performer.min_similarity_score",
		"recommend_performer_include_zero_usage":            "recommend.performer.include_zero_usage",
		"recommend_performer_fallback_top_k":                "recommend.performer.fallback_top_k",
		"recommend_performer_max_cup_difference":            "recommend.performer.max_cup_difference",
		"recommend_performer_bmi_cup_weight":                "recommend.performer.bmi_cup_weight",
		"recommend_performer_height_cup_weight":             "recommend.performer.height_cup_weight",
		"recommend_performer_max_bmi_cup_difference":        "recommend.performer.max_bmi_cup_difference",
		"recommend_performer_max_height_cup_difference":     "recommend.performer.max_height_cup_difference",
		"recommend_performer_tag_threshold_ratio":           "recommend.performer.tag_threshold_ratio",
		"recommend_performer_age_tolerance":                 "recommend.performer.age_tolerance",
		"recommend_performer_novelty_days":                  "recommend.performer.novelty_days",
		"recommend_performer_min_rating":                    "recommend.performer.min_rating",
		"recommend_performer_favorite_similarity_threshold": "recommend.performer.favorite_similarity_threshold",
		"recommend_performer_min_rating_for_preference":     "recommend.performer.min_rating_for_preference",
		"recommend_performer_min_usage_for_preference":      "recommend.performer.min_usage_for_preference",
		"recommend_performer_min_preference_occurrence":     "recommend.performer.min_preference_occurrence",
		"recommend_performer_weight_cup_size":               "recommend.performer.weights.cup_size",
		"recommend_performer_weight_proportions":            "recommend.performer.weights.proportions",
		"recommend_performer_weight_tags":                   "recommend.performer.weights.tags",
		"recommend_performer_weight_age":                    "recommend.performer.weights.age",
		"recommend_performer_weight_quality":                "recommend.performer.weights.quality",
		"recommend_performer_weight_novelty":                "recommend.performer.weights.novelty",
		"recommend_performer_weight_versatility":            "recommend.performer.weights.versatility",
		"recommend_performer_weight_favorites":              "recommend.performer.weights.favorites",

		// Scene recommendations
		"recommend_scene_enabled":                   "recommend.scene.enabled",
		"recommend_scene_max_recommendations":       "recommend.scene.max_recommendations",
		"recommend_scene_min_rating":                "recommend.scene.min_rating",
		"recommend_scene_novelty_days":              "recommend.scene.novelty_days",
		"recommend_scene_min_tag_similarity":        "recommend.scene.min_tag_similarity",
		"recommend_scene_min_rating_for_preference": "recommend.scene.min_rating_for_preference",
		"recommend_scene_min_plays_for_preference":  "recommend.scene.min_plays_for_preference",
		"recommend_scene_min_preference_occurrence": "recommend.scene.min_preference_occurrence",
		"recommend_scene_weight_tag_similarity":     "recommend.scene.weights.tag_similarity",
		"recommend_scene_weight_performer_match":    "recommend.scene.weights.performer_match",
		"recommend_scene_weight_studio_match":       "recommend.scene.weights.studio_match",
		"recommend_scene_weight_quality":            "recommend.scene.weights.quality",
		"recommend_scene_weight_novelty":            "recommend.scene.weights.novelty",
		"recommend_scene_weight_top_rated":          "recommend.scene.weights.top_rated",

		// Statistics
		"stats_enabled":         "stats.enabled",
		"stats_top_list_size":   "stats.top_list_size",
		"stats_min_data_points": "stats.min_data_points",

		// Discord notifications
		"notify_discord_enabled":      "notify.discord.enabled",
		"notify_discord_webhook_url":  "notify.discord.webhook_url",
		"notify_discord_username":     "notify.discord.username",
		"notify_discord_min_interval": "notify.discord.min_interval",
		"notify_discord_top_count":    "notify.discord.top_count",
		"notify_discord_timeout":      "notify.discord.timeout",

		// Export
		"export_enabled":     "export.enabled",
		"export_output_dir":  "export.output_dir",
		"export_csv_enabled": "export.csv_enabled",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// GetKoanfInstance returns a new Koanf instance for advanced usage.
// This is useful for:
//   - Hot-reload scenarios (with proper mutex protection)
//   - Custom configuration sources
//   - Testing with mock configurations
func GetKoanfInstance() *koanf.Koanf {
	return koanf.New(".")
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// Note: The caller is responsible for mutex protection when accessing
// configuration during reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	// Start watching the file for changes
	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
