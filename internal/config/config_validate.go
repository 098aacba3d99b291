// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
// Validation failures are fatal at startup; runtime weight overrides go
// through the recommendation engine's own warn-and-ignore path instead.
func (c *Config) Validate() error {
	if err := c.validateStash(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateRefresh(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateStats(); err != nil {
		return err
	}

	if err := c.validateNotify(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateStash validates the Stash connection settings. Stash is the only
// data source, so the URL is always required.
func (c *Config) validateStash() error {
	if c.Stash.URL == "" {
		return fmt.Errorf("STASH_URL is required")
	}
	if err := validateHTTPURL(c.Stash.URL, "STASH_URL"); err != nil {
		return err
	}
	if c.Stash.Timeout <= 0 {
		return fmt.Errorf("STASH_TIMEOUT must be positive, got %s", c.Stash.Timeout)
	}
	if c.Stash.PageSize < 1 || c.Stash.PageSize > 1000 {
		return fmt.Errorf("STASH_PAGE_SIZE must be between 1 and 1000, got %d", c.Stash.PageSize)
	}
	if c.Stash.RateLimit <= 0 {
		return fmt.Errorf("STASH_RATE_LIMIT must be positive, got %g", c.Stash.RateLimit)
	}
	if c.Stash.RateBurst < 1 {
		return fmt.Errorf("STASH_RATE_BURST must be at least 1, got %d", c.Stash.RateBurst)
	}
	return nil
}

// validateServer validates the HTTP server settings.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout)
	}
	return nil
}

// validateRefresh validates the refresh pipeline settings.
func (c *Config) validateRefresh() error {
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive, got %s", c.Refresh.Interval)
	}
	if c.Refresh.ForceUpdateInterval <= 0 {
		return fmt.Errorf("REFRESH_FORCE_UPDATE_INTERVAL must be positive, got %s", c.Refresh.ForceUpdateInterval)
	}
	if c.Refresh.Timeout <= 0 {
		return fmt.Errorf("REFRESH_TIMEOUT must be positive, got %s", c.Refresh.Timeout)
	}
	return nil
}

// validateRecommend validates both recommendation sections.
func (c *Config) validateRecommend() error {
	if err := c.validatePerformerRecommend(); err != nil {
		return err
	}
	return c.validateSceneRecommend()
}

// validatePerformerRecommend validates the performer recommendation settings.
func (c *Config) validatePerformerRecommend() error {
	p := &c.Recommend.Performer
	if !p.Enabled {
		return nil
	}

	if p.MaxRecommendations < 1 {
		return fmt.Errorf("RECOMMEND_PERFORMER_MAX_RECOMMENDATIONS must be at least 1, got %d", p.MaxRecommendations)
	}
	if p.FallbackTopK < 1 {
		return fmt.Errorf("RECOMMEND_PERFORMER_FALLBACK_TOP_K must be at least 1, got %d", p.FallbackTopK)
	}
	if p.MaxCupDifference <= 0 {
		return fmt.Errorf("RECOMMEND_PERFORMER_MAX_CUP_DIFFERENCE must be positive, got %g", p.MaxCupDifference)
	}
	if p.MaxBMICupDifference <= 0 {
		return fmt.Errorf("RECOMMEND_PERFORMER_MAX_BMI_CUP_DIFFERENCE must be positive, got %g", p.MaxBMICupDifference)
	}
	if p.MaxHeightCupDifference <= 0 {
		return fmt.Errorf("RECOMMEND_PERFORMER_MAX_HEIGHT_CUP_DIFFERENCE must be positive, got %g", p.MaxHeightCupDifference)
	}
	if p.AgeTolerance <= 0 {
		return fmt.Errorf("RECOMMEND_PERFORMER_AGE_TOLERANCE must be positive, got %g", p.AgeTolerance)
	}
	if p.NoveltyDays < 1 {
		return fmt.Errorf("RECOMMEND_PERFORMER_NOVELTY_DAYS must be at least 1, got %d", p.NoveltyDays)
	}
	if p.MinRating < 0 || p.MinRating > 100 {
		return fmt.Errorf("RECOMMEND_PERFORMER_MIN_RATING must be between 0 and 100, got %d", p.MinRating)
	}
	if p.MinRatingForPreference < 0 || p.MinRatingForPreference > 100 {
		return fmt.Errorf("RECOMMEND_PERFORMER_MIN_RATING_FOR_PREFERENCE must be between 0 and 100, got %d", p.MinRatingForPreference)
	}
	if p.MinUsageForPreference < 1 {
		return fmt.Errorf("RECOMMEND_PERFORMER_MIN_USAGE_FOR_PREFERENCE must be at least 1, got %d", p.MinUsageForPreference)
	}
	if p.MinPreferenceOccurrence < 1 {
		return fmt.Errorf("RECOMMEND_PERFORMER_MIN_PREFERENCE_OCCURRENCE must be at least 1, got %d", p.MinPreferenceOccurrence)
	}
	if err := validateUnitRange(p.MinSimilarityScore, "RECOMMEND_PERFORMER_MIN_SIMILARITY_SCORE"); err != nil {
		return err
	}
	if err := validateUnitRange(p.TagThresholdRatio, "RECOMMEND_PERFORMER_TAG_THRESHOLD_RATIO"); err != nil {
		return err
	}
	if err := validateUnitRange(p.FavoriteSimilarityThreshold, "RECOMMEND_PERFORMER_FAVORITE_SIMILARITY_THRESHOLD"); err != nil {
		return err
	}
	return c.validatePerformerWeights()
}

// validatePerformerWeights rejects negative category weights. Zero is valid
// and removes the category from the overall ranking.
func (c *Config) validatePerformerWeights() error {
	w := &c.Recommend.Performer.Weights
	weights := map[string]float64{
		"RECOMMEND_PERFORMER_WEIGHT_CUP_SIZE":    w.CupSize,
		"RECOMMEND_PERFORMER_WEIGHT_PROPORTIONS": w.Proportions,
		"RECOMMEND_PERFORMER_WEIGHT_TAGS":        w.Tags,
		"RECOMMEND_PERFORMER_WEIGHT_AGE":         w.Age,
		"RECOMMEND_PERFORMER_WEIGHT_QUALITY":     w.Quality,
		"RECOMMEND_PERFORMER_WEIGHT_NOVELTY":     w.Novelty,
		"RECOMMEND_PERFORMER_WEIGHT_VERSATILITY": w.Versatility,
		"RECOMMEND_PERFORMER_WEIGHT_FAVORITES":   w.Favorites,
	}
	for key, val := range weights {
		if val < 0 {
			return fmt.Errorf("%s must not be negative, got %g", key, val)
		}
	}

	bmiw := c.Recommend.Performer.BMICupWeight
	heightw := c.Recommend.Performer.HeightCupWeight
	if bmiw < 0 {
		return fmt.Errorf("RECOMMEND_PERFORMER_BMI_CUP_WEIGHT must not be negative, got %g", bmiw)
	}
	if heightw < 0 {
		return fmt.Errorf("RECOMMEND_PERFORMER_HEIGHT_CUP_WEIGHT must not be negative, got %g", heightw)
	}
	if bmiw+heightw == 0 {
		return fmt.Errorf("RECOMMEND_PERFORMER_BMI_CUP_WEIGHT and RECOMMEND_PERFORMER_HEIGHT_CUP_WEIGHT must not both be zero")
	}
	return nil
}

// validateSceneRecommend validates the scene recommendation settings.
func (c *Config) validateSceneRecommend() error {
	s := &c.Recommend.Scene
	if !s.Enabled {
		return nil
	}

	if s.MaxRecommendations < 1 {
		return fmt.Errorf("RECOMMEND_SCENE_MAX_RECOMMENDATIONS must be at least 1, got %d", s.MaxRecommendations)
	}
	if s.MinRating < 0 || s.MinRating > 100 {
		return fmt.Errorf("RECOMMEND_SCENE_MIN_RATING must be between 0 and 100, got %d", s.MinRating)
	}
	if s.NoveltyDays < 1 {
		return fmt.Errorf("RECOMMEND_SCENE_NOVELTY_DAYS must be at least 1, got %d", s.NoveltyDays)
	}
	if err := validateUnitRange(s.MinTagSimilarity, "RECOMMEND_SCENE_MIN_TAG_SIMILARITY"); err != nil {
		return err
	}
	if s.MinRatingForPreference < 0 || s.MinRatingForPreference > 100 {
		return fmt.Errorf("RECOMMEND_SCENE_MIN_RATING_FOR_PREFERENCE must be between 0 and 100, got %d", s.MinRatingForPreference)
	}
	if s.MinPlaysForPreference < 0 {
		return fmt.Errorf("RECOMMEND_SCENE_MIN_PLAYS_FOR_PREFERENCE must not be negative, got %d", s.MinPlaysForPreference)
	}
	if s.MinPreferenceOccurrence < 1 {
		return fmt.Errorf("RECOMMEND_SCENE_MIN_PREFERENCE_OCCURRENCE must be at least 1, got %d", s.MinPreferenceOccurrence)
	}
	return c.validateSceneWeights()
}

// validateSceneWeights rejects negative category weights.
func (c *Config) validateSceneWeights() error {
	w := &c.Recommend.Scene.Weights
	weights := map[string]float64{
		"RECOMMEND_SCENE_WEIGHT_TAG_SIMILARITY":  w.TagSimilarity,
		"RECOMMEND_SCENE_WEIGHT_PERFORMER_MATCH": w.PerformerMatch,
		"RECOMMEND_SCENE_WEIGHT_STUDIO_MATCH":    w.StudioMatch,
		"RECOMMEND_SCENE_WEIGHT_QUALITY":         w.Quality,
		"RECOMMEND_SCENE_WEIGHT_NOVELTY":         w.Novelty,
		"RECOMMEND_SCENE_WEIGHT_TOP_RATED":       w.TopRated,
	}
	for key, val := range weights {
		if val < 0 {
			return fmt.Errorf("%s must not be negative, got %g", key, val)
		}
	}
	return nil
}

// validateStats validates the statistics settings.
func (c *Config) validateStats() error {
	if !c.Stats.Enabled {
		return nil
	}
	if c.Stats.TopListSize < 1 {
		return fmt.Errorf("STATS_TOP_LIST_SIZE must be at least 1, got %d", c.Stats.TopListSize)
	}
	if c.Stats.MinDataPoints < 2 {
		return fmt.Errorf("STATS_MIN_DATA_POINTS must be at least 2, got %d", c.Stats.MinDataPoints)
	}
	return nil
}

// validateNotify validates notification settings (only if enabled).
func (c *Config) validateNotify() error {
	d := &c.Notify.Discord
	if !d.Enabled {
		return nil
	}

	if d.WebhookURL == "" {
		return fmt.Errorf("NOTIFY_DISCORD_WEBHOOK_URL is required when NOTIFY_DISCORD_ENABLED=true")
	}
	if err := validateWebhookURL(d.WebhookURL, "NOTIFY_DISCORD_WEBHOOK_URL"); err != nil {
		return err
	}
	if d.MinInterval < 0 {
		return fmt.Errorf("NOTIFY_DISCORD_MIN_INTERVAL must not be negative, got %s", d.MinInterval)
	}
	if d.TopCount < 1 {
		return fmt.Errorf("NOTIFY_DISCORD_TOP_COUNT must be at least 1, got %d", d.TopCount)
	}
	if d.Timeout <= 0 {
		return fmt.Errorf("NOTIFY_DISCORD_TIMEOUT must be positive, got %s", d.Timeout)
	}
	return nil
}

// validateLogging validates the logging settings.
func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true,
	}
	level := strings.ToLower(c.Logging.Level)
	if !validLevels[level] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, got %q", c.Logging.Level)
	}

	format := strings.ToLower(c.Logging.Format)
	if format != "json" && format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateUnitRange checks a fractional threshold lies in [0, 1].
func validateUnitRange(val float64, fieldName string) error {
	if val < 0 || val > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %g", fieldName, val)
	}
	return nil
}

// validateHTTPURL validates that a URL is a bare HTTP/HTTPS base URL.
// Validates: scheme (http/https), host present, no paths or query params.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	// Allow trailing slash but no other paths; the /graphql suffix is
	// appended by the client.
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, parsedURL.Path)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}

// validateWebhookURL validates a webhook endpoint. Unlike validateHTTPURL
// a path is expected here (Discord webhooks carry the token in the path).
func validateWebhookURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	return nil
}
