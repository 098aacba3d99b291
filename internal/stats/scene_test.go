// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package stats

import (
	"reflect"
	"testing"

	"github.com/tomtom215/curatarr/internal/models"
)

// statsScenes is the shared scene fixture: two played and two unplayed
// scenes across two studios, with runtimes placed on bucket edges.
func statsScenes() []*models.Scene {
	return []*models.Scene{
		{
			ID:         "1",
			Title:      "One",
			Rating100:  intp(90),
			OCounter:   3,
			Date:       "2023-05-10",
			Studio:     &models.StudioRef{ID: "s1", Name: "Acme"},
			Tags:       tagNames("outdoor", "interview"),
			Performers: []models.PerformerRef{{ID: "p1"}, {ID: "p2"}},
			Files:      []models.SceneFile{{Duration: 300}},
		},
		{
			ID:         "2",
			Title:      "Two",
			Rating100:  intp(65),
			Date:       "2023-11-02",
			Studio:     &models.StudioRef{ID: "s1", Name: "Acme"},
			Tags:       tagNames("outdoor"),
			Performers: []models.PerformerRef{{ID: "p1"}},
			Files:      []models.SceneFile{{Duration: 299}},
		},
		{
			ID:       "3",
			Title:    "Three",
			OCounter: 1,
			Date:     "2024-01-15",
			Studio:   &models.StudioRef{ID: "s2", Name: "Bolt"},
			Files:    []models.SceneFile{{Duration: 3600}},
		},
		{
			ID:         "4",
			Title:      "Four",
			Rating100:  intp(80),
			Tags:       tagNames("interview"),
			Performers: []models.PerformerRef{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}},
		},
	}
}

// --- Test: scene aggregation ---

func TestComputeSceneStats(t *testing.T) {
	t.Parallel()

	s := computeSceneStats(statsScenes(), 10)

	counts := []struct {
		name string
		got  int
		want int
	}{
		{"TotalCount", s.TotalCount, 4},
		{"RatedCount", s.RatedCount, 3},
		{"WithUsage", s.WithUsage, 2},
		{"WithDate", s.WithDate, 3},
		{"TotalUsage", s.TotalUsage, 4},
	}
	for _, c := range counts {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	if s.AvgRating != 78.33 {
		t.Errorf("AvgRating = %v, want 78.33", s.AvgRating)
	}
	if s.AvgOCounter != 2 {
		t.Errorf("AvgOCounter = %v, want 2", s.AvgOCounter)
	}
	if s.AvgDuration != 1399.67 {
		t.Errorf("AvgDuration = %v, want 1399.67", s.AvgDuration)
	}
	if s.AvgPerformerCount != 2 {
		t.Errorf("AvgPerformerCount = %v, want 2", s.AvgPerformerCount)
	}
}

func TestComputeSceneStatsDistributions(t *testing.T) {
	t.Parallel()

	s := computeSceneStats(statsScenes(), 10)

	// Ratings 90, 65, and 80 land in the 5, 3, and 4 star buckets.
	wantStars := []ValueBucket{{Value: 3, Count: 1}, {Value: 4, Count: 1}, {Value: 5, Count: 1}}
	if !reflect.DeepEqual(s.RatingDistribution, wantStars) {
		t.Errorf("RatingDistribution = %v, want %v", s.RatingDistribution, wantStars)
	}

	// Unplayed scenes keep their zero bucket.
	wantUsage := []ValueBucket{{Value: 0, Count: 2}, {Value: 1, Count: 1}, {Value: 3, Count: 1}}
	if !reflect.DeepEqual(s.UsageDistribution, wantUsage) {
		t.Errorf("UsageDistribution = %v, want %v", s.UsageDistribution, wantUsage)
	}

	// 299s, 300s, and 3600s runtimes; the scene without files is skipped.
	wantDurations := []Bucket{{Label: "0-5 min", Count: 1}, {Label: "5-10 min", Count: 1}, {Label: "60+ min", Count: 1}}
	if !reflect.DeepEqual(s.DurationDistribution, wantDurations) {
		t.Errorf("DurationDistribution = %v, want %v", s.DurationDistribution, wantDurations)
	}

	wantCast := []ValueBucket{{Value: 0, Count: 1}, {Value: 1, Count: 1}, {Value: 2, Count: 1}, {Value: 3, Count: 1}}
	if !reflect.DeepEqual(s.PerformerCountDistribution, wantCast) {
		t.Errorf("PerformerCountDistribution = %v, want %v", s.PerformerCountDistribution, wantCast)
	}

	wantStudios := []Bucket{{Label: "Acme", Count: 2}, {Label: "Bolt", Count: 1}}
	if !reflect.DeepEqual(s.StudioDistribution, wantStudios) {
		t.Errorf("StudioDistribution = %v, want %v", s.StudioDistribution, wantStudios)
	}

	wantYears := []Bucket{{Label: "2023", Count: 2}, {Label: "2024", Count: 1}}
	if !reflect.DeepEqual(s.YearDistribution, wantYears) {
		t.Errorf("YearDistribution = %v, want %v", s.YearDistribution, wantYears)
	}
}

func TestComputeSceneStatsTopLists(t *testing.T) {
	t.Parallel()

	s := computeSceneStats(statsScenes(), 10)

	// Both tags appear twice; the tie resolves by label.
	wantTags := []Bucket{{Label: "interview", Count: 2}, {Label: "outdoor", Count: 2}}
	if !reflect.DeepEqual(s.TopTags, wantTags) {
		t.Errorf("TopTags = %v, want %v", s.TopTags, wantTags)
	}

	wantStudios := []Bucket{{Label: "Acme", Count: 2}, {Label: "Bolt", Count: 1}}
	if !reflect.DeepEqual(s.TopStudios, wantStudios) {
		t.Errorf("TopStudios = %v, want %v", s.TopStudios, wantStudios)
	}

	wantRated := []TopEntry{
		{ID: "1", Name: "One", Value: 90},
		{ID: "4", Name: "Four", Value: 80},
		{ID: "2", Name: "Two", Value: 65},
	}
	if !reflect.DeepEqual(s.TopRated, wantRated) {
		t.Errorf("TopRated = %v, want %v", s.TopRated, wantRated)
	}

	wantUsage := []TopEntry{
		{ID: "1", Name: "One", Value: 3},
		{ID: "3", Name: "Three", Value: 1},
	}
	if !reflect.DeepEqual(s.TopUsage, wantUsage) {
		t.Errorf("TopUsage = %v, want %v", s.TopUsage, wantUsage)
	}
}

func TestDurationBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seconds float64
		want    string
	}{
		{-5, ""},
		{0, ""},
		{1, "0-5 min"},
		{299, "0-5 min"},
		{300, "5-10 min"},
		{599, "5-10 min"},
		{600, "10-20 min"},
		{1199, "10-20 min"},
		{1200, "20-30 min"},
		{1799, "20-30 min"},
		{1800, "30-60 min"},
		{3599, "30-60 min"},
		{3600, "60+ min"},
		{86400, "60+ min"},
	}

	for _, tt := range tests {
		if got := durationBucket(tt.seconds); got != tt.want {
			t.Errorf("durationBucket(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestComputeSceneStatsEmpty(t *testing.T) {
	t.Parallel()

	s := computeSceneStats(nil, 10)

	if s.TotalCount != 0 {
		t.Errorf("TotalCount = %d, want 0", s.TotalCount)
	}
	if s.AvgDuration != 0 {
		t.Errorf("AvgDuration = %v, want 0", s.AvgDuration)
	}
	if len(s.UsageDistribution) != 0 || len(s.StudioDistribution) != 0 {
		t.Error("distributions not empty for empty snapshot")
	}
	if len(s.TopRated) != 0 || len(s.TopUsage) != 0 {
		t.Error("top lists not empty for empty snapshot")
	}
}
