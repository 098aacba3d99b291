// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package stats

import (
	"math"
	"strconv"
	"time"

	"github.com/tomtom215/curatarr/internal/models"
)

// durationRanges buckets scene runtimes in seconds. Edges are half-open,
// so a 300 second scene lands in "5-10 min".
var durationRanges = []struct {
	label string
	min   float64
	max   float64
}{
	{"0-5 min", 0, 300},
	{"5-10 min", 300, 600},
	{"10-20 min", 600, 1200},
	{"20-30 min", 1200, 1800},
	{"30-60 min", 1800, 3600},
	{"60+ min", 3600, math.Inf(1)},
}

// durationBucket returns the runtime bucket label, or "" for non-positive
// runtimes.
func durationBucket(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	for _, r := range durationRanges {
		if seconds >= r.min && seconds < r.max {
			return r.label
		}
	}
	return ""
}

// computeSceneStats aggregates the scene snapshot.
func computeSceneStats(scenes []*models.Scene, topN int) SceneStats {
	s := SceneStats{TotalCount: len(scenes)}

	var (
		ratings, usage, durations, castSizes []float64

		starCounts     = make(map[int]int)
		usageCounts    = make(map[int]int)
		durationCounts = make(map[string]int)
		castCounts     = make(map[int]int)
		studioCounts   = make(map[string]int)
		yearCounts     = make(map[string]int)
		tagCounts      = make(map[string]int)
	)

	for _, sc := range scenes {
		s.TotalUsage += sc.OCounter
		usageCounts[sc.OCounter]++
		if sc.OCounter > 0 {
			s.WithUsage++
			usage = append(usage, float64(sc.OCounter))
		}
		if sc.Rating100 != nil {
			s.RatedCount++
			ratings = append(ratings, float64(*sc.Rating100))
			starCounts[models.RatingStars(*sc.Rating100)]++
		}
		if d := sc.Duration(); d > 0 {
			durations = append(durations, d)
			durationCounts[durationBucket(d)]++
		}
		castCounts[len(sc.Performers)]++
		if len(sc.Performers) > 0 {
			castSizes = append(castSizes, float64(len(sc.Performers)))
		}
		if sc.Studio != nil && sc.Studio.Name != "" {
			studioCounts[sc.Studio.Name]++
		}
		if sc.Date != "" {
			s.WithDate++
			if released, err := time.Parse("2006-01-02", sc.Date); err == nil {
				yearCounts[strconv.Itoa(released.Year())]++
			}
		}
		for _, t := range sc.Tags {
			tagCounts[t.Name]++
		}
	}

	if avg, ok := mean(ratings); ok {
		s.AvgRating = round2(avg)
	}
	if avg, ok := mean(usage); ok {
		s.AvgOCounter = round2(avg)
	}
	if avg, ok := mean(durations); ok {
		s.AvgDuration = round2(avg)
	}
	if avg, ok := mean(castSizes); ok {
		s.AvgPerformerCount = round2(avg)
	}

	s.RatingDistribution = sortedValueBuckets(starCounts)
	s.UsageDistribution = sortedValueBuckets(usageCounts)
	s.DurationDistribution = durationDistribution(durationCounts)
	s.PerformerCountDistribution = sortedValueBuckets(castCounts)
	s.StudioDistribution = sortedBuckets(studioCounts)
	s.YearDistribution = sortedBuckets(yearCounts)

	s.TopTags = rankedBuckets(tagCounts, topN)
	s.TopStudios = rankedBuckets(studioCounts, topN)
	s.TopRated = topScenes(scenes, topN, func(sc *models.Scene) (int, bool) {
		if sc.Rating100 == nil {
			return 0, false
		}
		return *sc.Rating100, true
	})
	s.TopUsage = topScenes(scenes, topN, func(sc *models.Scene) (int, bool) {
		return sc.OCounter, sc.OCounter > 0
	})

	return s
}

// durationDistribution emits the runtime buckets in range order, skipping
// empty ranges.
func durationDistribution(counts map[string]int) []Bucket {
	buckets := make([]Bucket, 0, len(counts))
	for _, r := range durationRanges {
		if n := counts[r.label]; n > 0 {
			buckets = append(buckets, Bucket{Label: r.label, Count: n})
		}
	}
	return buckets
}

// topScenes ranks scenes by the extracted value descending, ties by ID
// ascending, capped at limit.
func topScenes(scenes []*models.Scene, limit int, value func(*models.Scene) (int, bool)) []TopEntry {
	entries := make([]TopEntry, 0, len(scenes))
	for _, sc := range scenes {
		v, ok := value(sc)
		if !ok {
			continue
		}
		entries = append(entries, TopEntry{ID: sc.ID, Name: sc.Title, Value: v})
	}
	return capTopEntries(entries, limit)
}
