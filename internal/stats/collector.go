// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curatarr/internal/models"
)

// Config holds the statistics collector settings.
type Config struct {
	// TopListSize caps every ranked list: top tags, top studios, top rated,
	// top usage.
	TopListSize int

	// MinDataPoints is the sample size below which a correlation is skipped
	// as meaningless.
	MinDataPoints int
}

// DefaultConfig returns the standard collector settings.
func DefaultConfig() Config {
	return Config{
		TopListSize:   10,
		MinDataPoints: 5,
	}
}

// Validate checks the collector settings.
func (c Config) Validate() error {
	if c.TopListSize < 1 {
		return fmt.Errorf("top list size must be at least 1, got %d", c.TopListSize)
	}
	if c.MinDataPoints < 2 {
		return fmt.Errorf("min data points must be at least 2, got %d", c.MinDataPoints)
	}
	return nil
}

// Collector computes library statistics from a snapshot. It holds no per-run
// state and is safe for concurrent use.
type Collector struct {
	cfg    Config
	logger zerolog.Logger
}

// New creates a collector with a validated config.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger) (*Collector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stats config: %w", err)
	}
	return &Collector{
		cfg:    cfg,
		logger: logger.With().Str("component", "stats").Logger(),
	}, nil
}

// Compute aggregates one snapshot into a summary. The reference time only
// stamps the summary; every number derives from the snapshot itself.
func (c *Collector) Compute(performers []*models.Performer, scenes []*models.Scene, now time.Time) *Summary {
	start := time.Now()

	summary := &Summary{
		GeneratedAt:  now,
		Performers:   computePerformerStats(performers, c.cfg.TopListSize),
		Scenes:       computeSceneStats(scenes, c.cfg.TopListSize),
		Correlations: computeCorrelations(performers, scenes, c.cfg.MinDataPoints),
	}

	c.logger.Info().
		Int("performers", len(performers)).
		Int("scenes", len(scenes)).
		Int("performer_correlations", len(summary.Correlations.Performer)).
		Int("scene_correlations", len(summary.Correlations.Scene)).
		Dur("duration", time.Since(start)).
		Msg("library statistics computed")

	return summary
}

// sortedBuckets emits counts in ascending label order.
func sortedBuckets(counts map[string]int) []Bucket {
	buckets := make([]Bucket, 0, len(counts))
	for label, n := range counts {
		buckets = append(buckets, Bucket{Label: label, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Label < buckets[j].Label
	})
	return buckets
}

// orderedBuckets emits counts following a fixed label order, skipping labels
// with no members.
func orderedBuckets(counts map[string]int, order []string) []Bucket {
	buckets := make([]Bucket, 0, len(counts))
	for _, label := range order {
		if n := counts[label]; n > 0 {
			buckets = append(buckets, Bucket{Label: label, Count: n})
		}
	}
	return buckets
}

// rankedBuckets emits counts ordered by count descending, ties broken by
// label ascending, capped at limit.
func rankedBuckets(counts map[string]int, limit int) []Bucket {
	buckets := make([]Bucket, 0, len(counts))
	for label, n := range counts {
		buckets = append(buckets, Bucket{Label: label, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})
	if limit > 0 && len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets
}

// sortedValueBuckets emits counts in ascending key order.
func sortedValueBuckets(counts map[int]int) []ValueBucket {
	buckets := make([]ValueBucket, 0, len(counts))
	for v, n := range counts {
		buckets = append(buckets, ValueBucket{Value: v, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Value < buckets[j].Value
	})
	return buckets
}

// capTopEntries sorts entries by value descending, ID ascending, and caps
// the list.
func capTopEntries(entries []TopEntry, limit int) []TopEntry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].ID < entries[j].ID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// mostCommonLabel returns the label with the highest count, ties broken by
// label ascending. Empty input yields "".
func mostCommonLabel(counts map[string]int) string {
	best := ""
	bestCount := 0
	for label, n := range counts {
		if n > bestCount || (n == bestCount && label < best) {
			best = label
			bestCount = n
		}
	}
	return best
}

// mean returns the arithmetic mean, reporting ok=false for an empty sample.
func mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// stdDev is the population standard deviation around the given mean.
func stdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
