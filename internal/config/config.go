// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package config

import (
	"time"
)

// Config holds all application configuration loaded from environment variables
// and an optional YAML config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Data Source:
//     - Stash: GraphQL endpoint for performers, scenes, and tags
//
//  2. Pipeline:
//     - Refresh: Periodic refresh scheduling and change detection
//     - Store: Badger fingerprint store for incremental refreshes
//     - Recommend: Performer and scene recommendation tuning
//     - Stats: Library statistics generation
//
//  3. Outputs:
//     - Server: HTTP API configuration (host, port, timeouts, CORS)
//     - Notify: Discord webhook notifications
//     - Export: JSON/CSV file exports
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Example - Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Stash.URL, cfg.Recommend.Performer.Weights, etc. are now populated
//
// Validation:
// Load() validates all required fields and returns an error if required
// settings are missing (STASH_URL) or malformed (negative intervals, weights
// below zero, thresholds outside [0,1]). A config that fails validation is
// fatal at startup; the application never runs with a partially valid config.
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
type Config struct {
	Stash     StashConfig     `koanf:"stash"`
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Refresh   RefreshConfig   `koanf:"refresh"`
	Recommend RecommendConfig `koanf:"recommend"`
	Stats     StatsConfig     `koanf:"stats"`
	Notify    NotifyConfig    `koanf:"notify"`
	Export    ExportConfig    `koanf:"export"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// StashConfig holds Stash GraphQL API connection settings.
// Stash is the single upstream data source; if it is unreachable a refresh
// run fails as a whole rather than producing partial results.
type StashConfig struct {
	// URL is the base URL of the Stash server (http://localhost:9999).
	// Required.
	URL string `koanf:"url"`

	// APIKey authenticates requests via the ApiKey header.
	// Optional for unauthenticated Stash instances.
	APIKey string `koanf:"api_key"`

	// Timeout is the per-request HTTP timeout.
	// Default: 30s
	Timeout time.Duration `koanf:"timeout"`

	// PageSize is the number of scenes fetched per findScenes page.
	// Default: 100
	PageSize int `koanf:"page_size"`

	// RateLimit caps outgoing GraphQL requests per second.
	// Default: 10
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the token bucket burst size for the rate limiter.
	// Default: 5
	RateBurst int `koanf:"rate_burst"`

	// BreakerEnabled wraps Stash calls in a circuit breaker so a flapping
	// server fails fast instead of stalling refresh runs.
	// Default: true
	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// ServerConfig holds HTTP API server settings.
type ServerConfig struct {
	// Host is the listen address.
	// Default: 0.0.0.0
	Host string `koanf:"host"`

	// Port is the listen port.
	// Default: 9998
	Port int `koanf:"port"`

	// ReadTimeout bounds request header and body reads.
	// Default: 15s
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds response writes.
	// Default: 30s
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown on SIGTERM.
	// Default: 10s
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed CORS origins.
	// Default: ["*"]
	CORSOrigins []string `koanf:"cors_origins"`
}

// StoreConfig holds Badger fingerprint store settings.
// The store persists library fingerprints between runs so unchanged
// libraries skip recomputation.
type StoreConfig struct {
	// Path is the directory for the Badger database.
	// Default: ./data
	Path string `koanf:"path"`

	// InMemory runs Badger without disk persistence. Every startup then
	// behaves like a first run. Intended for tests and ephemeral containers.
	// Default: false
	InMemory bool `koanf:"in_memory"`
}

// RefreshConfig holds refresh pipeline scheduling settings.
type RefreshConfig struct {
	// Interval is how often the pipeline checks for library changes.
	// Default: 6h
	Interval time.Duration `koanf:"interval"`

	// RunOnStartup triggers a refresh immediately when the service starts.
	// Default: true
	RunOnStartup bool `koanf:"run_on_startup"`

	// ForceUpdateInterval forces a full recomputation even when no library
	// change is detected, to pick up time-dependent scores such as novelty.
	// Default: 168h (7 days)
	ForceUpdateInterval time.Duration `koanf:"force_update_interval"`

	// Timeout bounds a single refresh run end to end.
	// Default: 10m
	Timeout time.Duration `koanf:"timeout"`
}

// RecommendConfig groups the per-category recommendation settings.
type RecommendConfig struct {
	Performer PerformerRecommendConfig `koanf:"performer"`
	Scene     SceneRecommendConfig     `koanf:"scene"`
}

// PerformerRecommendConfig tunes the performer recommendation engine.
// Defaults mirror the values the scoring model was calibrated with; unset
// weights fall back to these rather than zero.
type PerformerRecommendConfig struct {
	// Enabled controls whether performer recommendations are computed.
	// Default: true
	Enabled bool `koanf:"enabled"`

	// MaxRecommendations caps each category list.
	// Default: 10
	MaxRecommendations int `koanf:"max_recommendations"`

	// MinSimilarityScore is the minimum tag similarity for the similar_tags
	// category. The effective cutoff is MinSimilarityScore * TagThresholdRatio.
	// Default: 0.75
	MinSimilarityScore float64 `koanf:"min_similarity_score"`

	// IncludeZeroUsage widens the candidate pool to performers with play
	// history. When false, only never-played performers are recommended.
	// Default: true
	IncludeZeroUsage bool `koanf:"include_zero_usage"`

	// FallbackTopK is how many top-rated performers stand in as the
	// reference set when the library has no favorites.
	// Default: 5
	FallbackTopK int `koanf:"fallback_top_k"`

	// MaxCupDifference is the numeric cup distance at which cup size
	// similarity reaches zero.
	// Default: 4
	MaxCupDifference float64 `koanf:"max_cup_difference"`

	// BMICupWeight weights the BMI-to-cup ratio inside the proportions score.
	// Default: 0.2
	BMICupWeight float64 `koanf:"bmi_cup_weight"`

	// HeightCupWeight weights the height-to-cup ratio inside the proportions score.
	// Default: 0.2
	HeightCupWeight float64 `koanf:"height_cup_weight"`

	// MaxBMICupDifference is the BMI-to-cup ratio distance at which that
	// component reaches zero.
	// Default: 5
	MaxBMICupDifference float64 `koanf:"max_bmi_cup_difference"`

	// MaxHeightCupDifference is the height-to-cup ratio distance at which
	// that component reaches zero.
	// Default: 50
	MaxHeightCupDifference float64 `koanf:"max_height_cup_difference"`

	// TagThresholdRatio scales MinSimilarityScore into the similar_tags cutoff.
	// Default: 0.8
	TagThresholdRatio float64 `koanf:"tag_threshold_ratio"`

	// AgeTolerance is the age difference in years beyond which a candidate
	// is excluded from the similar_age category.
	// Default: 5
	AgeTolerance float64 `koanf:"age_tolerance"`

	// NoveltyDays is the window in which a newly added performer counts as novel.
	// Default: 30
	NoveltyDays int `koanf:"novelty_days"`

	// MinRating is the 0-100 rating floor for the high_quality category.
	// Default: 60
	MinRating int `koanf:"min_rating"`

	// FavoriteSimilarityThreshold is the minimum similarity to any favorite
	// for the similar_to_favorites category.
	// Default: 0.7
	FavoriteSimilarityThreshold float64 `koanf:"favorite_similarity_threshold"`

	// MinRatingForPreference is the 0-100 rating at which a performer joins
	// the high-signal set preferred tags are counted over.
	// Default: 60
	MinRatingForPreference int `koanf:"min_rating_for_preference"`

	// MinUsageForPreference is the play count at which a performer joins the
	// high-signal set.
	// Default: 1
	MinUsageForPreference int `koanf:"min_usage_for_preference"`

	// MinPreferenceOccurrence is how often a tag must appear across
	// high-signal performers to count as preferred.
	// Default: 1
	MinPreferenceOccurrence int `koanf:"min_preference_occurrence"`

	// Weights are the per-category multipliers for the cross-category ranking.
	Weights PerformerWeights `koanf:"weights"`
}

// PerformerWeights holds the per-category weights used when merging
// performer category scores into the overall top list. A weight of zero
// removes the category from the overall ranking without disabling it.
type PerformerWeights struct {
	// CupSize weights the similar_cup_size category.
	// Default: 0.4
	CupSize float64 `koanf:"cup_size"`

	// Proportions weights the similar_proportions category.
	// Default: 0.2
	Proportions float64 `koanf:"proportions"`

	// Tags weights the similar_tags category.
	// Default: 0.6
	Tags float64 `koanf:"tags"`

	// Age weights the similar_age category.
	// Default: 0.4
	Age float64 `koanf:"age"`

	// Quality weights the high_quality category.
	// Default: 0.5
	Quality float64 `koanf:"quality"`

	// Novelty weights the novelty category.
	// Default: 0.3
	Novelty float64 `koanf:"novelty"`

	// Versatility weights the versatile category.
	// Default: 0.4
	Versatility float64 `koanf:"versatility"`

	// Favorites weights the similar_to_favorites category.
	// Default: 0.7
	Favorites float64 `koanf:"favorites"`
}

// SceneRecommendConfig tunes the scene recommendation engine.
type SceneRecommendConfig struct {
	// Enabled controls whether scene recommendations are computed.
	// Default: true
	Enabled bool `koanf:"enabled"`

	// MaxRecommendations caps each category list.
	// Default: 15
	MaxRecommendations int `koanf:"max_recommendations"`

	// MinRating is the 0-100 rating floor for the high_quality_unwatched category.
	// Default: 60
	MinRating int `koanf:"min_rating"`

	// NoveltyDays is the window in which a newly added scene counts as novel.
	// Default: 30
	NoveltyDays int `koanf:"novelty_days"`

	// MinTagSimilarity is the Jaccard cutoff for the tag_similarity category.
	// Default: 0.3
	MinTagSimilarity float64 `koanf:"min_tag_similarity"`

	// MinRatingForPreference is the 0-100 rating at which a watched scene
	// counts as a high signal for preference building.
	// Default: 75
	MinRatingForPreference int `koanf:"min_rating_for_preference"`

	// MinPlaysForPreference is the play count at which a watched scene
	// counts as a high signal for preference building.
	// Default: 1
	MinPlaysForPreference int `koanf:"min_plays_for_preference"`

	// MinPreferenceOccurrence is how often a tag, performer, or studio must
	// appear across high-signal scenes to count as preferred.
	// Default: 2
	MinPreferenceOccurrence int `koanf:"min_preference_occurrence"`

	// Weights are the per-category multipliers for the cross-category ranking.
	Weights SceneWeights `koanf:"weights"`
}

// SceneWeights holds the per-category weights used when merging scene
// category scores into the overall top list.
type SceneWeights struct {
	// TagSimilarity weights the tag_similarity category.
	// Default: 0.7
	TagSimilarity float64 `koanf:"tag_similarity"`

	// PerformerMatch weights the favorite_performers category.
	// Default: 0.8
	PerformerMatch float64 `koanf:"performer_match"`

	// StudioMatch weights the preferred_studios category.
	// Default: 0.3
	StudioMatch float64 `koanf:"studio_match"`

	// Quality weights the high_quality_unwatched category.
	// Default: 0.5
	Quality float64 `koanf:"quality"`

	// Novelty weights the novelty_unwatched category.
	// Default: 0.4
	Novelty float64 `koanf:"novelty"`

	// TopRated weights the top_unwatched_overall category.
	// Default: 0.2
	TopRated float64 `koanf:"top_rated"`
}

// StatsConfig holds library statistics settings.
type StatsConfig struct {
	// Enabled controls whether library statistics are computed.
	// Default: true
	Enabled bool `koanf:"enabled"`

	// TopListSize caps ranked statistics lists (top tags, top performers).
	// Default: 10
	TopListSize int `koanf:"top_list_size"`

	// MinDataPoints is the minimum sample size below which correlation
	// statistics are skipped as meaningless.
	// Default: 5
	MinDataPoints int `koanf:"min_data_points"`
}

// NotifyConfig groups notification sinks.
type NotifyConfig struct {
	Discord DiscordConfig `koanf:"discord"`
}

// DiscordConfig holds Discord webhook notification settings.
type DiscordConfig struct {
	// Enabled controls whether refresh summaries are posted to Discord.
	// Default: false
	Enabled bool `koanf:"enabled"`

	// WebhookURL is the Discord webhook endpoint.
	// Required when enabled.
	WebhookURL string `koanf:"webhook_url"`

	// Username overrides the webhook's display name.
	// Default: Curatarr
	Username string `koanf:"username"`

	// MinInterval suppresses notifications sent closer together than this,
	// so rapid successive refreshes do not spam the channel.
	// Default: 1m
	MinInterval time.Duration `koanf:"min_interval"`

	// TopCount is how many top recommendations each summary embed lists.
	// Default: 5
	TopCount int `koanf:"top_count"`

	// Timeout is the webhook HTTP timeout.
	// Default: 10s
	Timeout time.Duration `koanf:"timeout"`
}

// ExportConfig holds file export settings.
type ExportConfig struct {
	// Enabled controls whether refresh results are written to disk.
	// Default: true
	Enabled bool `koanf:"enabled"`

	// OutputDir is the directory for exported files. Created if missing.
	// Default: ./output
	OutputDir string `koanf:"output_dir"`

	// CSVEnabled additionally writes statistics as CSV files next to the JSON.
	// Default: true
	CSVEnabled bool `koanf:"csv_enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum level to emit: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format selects json or console output.
	// Default: console
	Format string `koanf:"format"`

	// Caller adds file:line to each entry.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load loads the configuration from defaults, an optional config file, and
// environment variables, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Clone returns a deep copy of the configuration. Mutating the clone does
// not affect the original, which matters for per-request weight overrides.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Server.CORSOrigins != nil {
		clone.Server.CORSOrigins = make([]string, len(c.Server.CORSOrigins))
		copy(clone.Server.CORSOrigins, c.Server.CORSOrigins)
	}
	return &clone
}
