// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package recommend

import (
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/curatarr/internal/models"
)

var fixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time {
	return fixedNow.Add(-time.Duration(d) * 24 * time.Hour)
}

// performerFixture returns two favorites and two candidates with
// hand-checkable scores. Candidate 10 qualifies for every category except
// reference similarity (it peaks at 0.6125, under the 0.7 threshold);
// candidate 11 misses every criterion.
func performerFixture() []*models.Performer {
	return []*models.Performer{
		{
			ID:               "1",
			Name:             "Fav One",
			Favorite:         true,
			CupNumeric:       3,
			BMIToCupRatio:    floatp(7.0),
			HeightToCupRatio: floatp(55.0),
			Age:              intp(28),
			Rating100:        intp(90),
			OCounter:         5,
			Tags:             tagNames("alpha", "beta"),
			CreatedAt:        daysAgo(100),
		},
		{
			ID:               "2",
			Name:             "Fav Two",
			Favorite:         true,
			CupNumeric:       4,
			BMIToCupRatio:    floatp(8.0),
			HeightToCupRatio: floatp(45.0),
			Age:              intp(32),
			Rating100:        intp(80),
			OCounter:         2,
			Tags:             tagNames("alpha", "gamma"),
			CreatedAt:        daysAgo(200),
		},
		{
			ID:               "10",
			Name:             "Cand A",
			CupNumeric:       3,
			BMIToCupRatio:    floatp(7.5),
			HeightToCupRatio: floatp(50.0),
			Age:              intp(33),
			Rating100:        intp(90),
			Tags:             tagNames("alpha", "beta", "delta"),
			CreatedAt:        daysAgo(10),
		},
		{
			ID:         "11",
			Name:       "Cand B",
			CupNumeric: 8,
			Age:        intp(45),
			Rating100:  intp(50),
			CreatedAt:  daysAgo(400),
		},
	}
}

// --- Test: NewPerformerEngine ---

func TestNewPerformerEngine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*PerformerConfig)
		wantErr bool
	}{
		{"default config", func(*PerformerConfig) {}, false},
		{"zero max recommendations", func(c *PerformerConfig) { c.MaxRecommendations = 0 }, true},
		{"similarity floor above one", func(c *PerformerConfig) { c.MinSimilarityScore = 1.5 }, true},
		{"negative weight", func(c *PerformerConfig) { c.Weights.Tags = -1 }, true},
		{"zero age tolerance", func(c *PerformerConfig) { c.AgeTolerance = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultPerformerConfig()
			tt.mutate(&cfg)
			engine, err := NewPerformerEngine(cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPerformerEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && engine == nil {
				t.Fatal("NewPerformerEngine() = nil engine without error")
			}
		})
	}
}

// --- Test: selectPerformerCandidates ---

func TestSelectPerformerCandidates(t *testing.T) {
	t.Parallel()

	performers := []*models.Performer{
		{ID: "ref"},
		{ID: "played", OCounter: 3},
		{ID: "fresh"},
	}
	profile := &PerformerProfile{ReferenceIDs: map[string]struct{}{"ref": {}}}

	all := selectPerformerCandidates(performers, profile, true)
	if len(all) != 2 {
		t.Fatalf("candidate count = %d, want 2", len(all))
	}
	for _, c := range all {
		if c.ID == "ref" {
			t.Error("reference member leaked into the candidate pool")
		}
	}

	zeroOnly := selectPerformerCandidates(performers, profile, false)
	if len(zeroOnly) != 1 || zeroOnly[0].ID != "fresh" {
		t.Errorf("zero-usage pool = %v, want only the never-played candidate", zeroOnly)
	}
}

// --- Test: Generate ---

func TestPerformerEngineGenerate(t *testing.T) {
	t.Parallel()

	engine, err := NewPerformerEngine(DefaultPerformerConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewPerformerEngine() error = %v", err)
	}

	result := engine.Generate(performerFixture(), fixedNow)

	if result.Variant != VariantPerformer {
		t.Errorf("Variant = %s, want %s", result.Variant, VariantPerformer)
	}
	if !result.GeneratedAt.Equal(fixedNow) {
		t.Errorf("GeneratedAt = %v, want the injected reference time", result.GeneratedAt)
	}
	if result.ReferenceCount != 2 {
		t.Errorf("ReferenceCount = %d, want 2", result.ReferenceCount)
	}
	if result.FallbackUsed {
		t.Error("FallbackUsed = true with favorites present")
	}
	if result.CandidateCount != 2 {
		t.Errorf("CandidateCount = %d, want 2", result.CandidateCount)
	}
	if len(result.Categories) != len(PerformerCategories()) {
		t.Errorf("category count = %d, want %d", len(result.Categories), len(PerformerCategories()))
	}

	// Hand-checked scores for candidate 10: cup decay(3, 3.5, 4), both
	// ratios matching the reference averages exactly, Jaccard 3/4 against
	// the preferred set, age decay(33, 30, 5), rating 90, created 10 of 30
	// days ago, and 3 of 3 pool-max tags.
	wantScores := map[string]float64{
		CategorySimilarCupSize:     0.875,
		CategorySimilarProportions: 1.0,
		CategorySimilarTags:        0.75,
		CategorySimilarAge:         0.4,
		CategoryHighQuality:        0.9,
		CategoryNovelty:            1 - 10.0/30.0,
		CategoryVersatile:          1.0,
	}
	for name, want := range wantScores {
		entries := result.Categories[name]
		if len(entries) != 1 {
			t.Fatalf("category %s has %d entries, want 1", name, len(entries))
		}
		if entries[0].ID != "10" || !almostEqual(entries[0].Score, want) {
			t.Errorf("category %s = %s/%g, want 10/%g", name, entries[0].ID, entries[0].Score, want)
		}
	}

	if got := result.Categories[CategorySimilarToFavorites]; len(got) != 0 {
		t.Errorf("similar_to_favorites has %d entries, want 0 below the threshold", len(got))
	}

	// A candidate absent from every category never reaches the ranking.
	for name, entries := range result.Categories {
		for _, e := range entries {
			if e.ID == "11" {
				t.Errorf("candidate 11 leaked into category %s", name)
			}
		}
	}

	// The global ranking is exactly the weighted sum of the per-category
	// scores above.
	if len(result.Top) != 1 {
		t.Fatalf("top count = %d, want 1", len(result.Top))
	}
	weights := engine.Config().Weights.ToMap()
	var want float64
	for _, name := range PerformerCategories() {
		for _, e := range result.Categories[name] {
			if e.ID == "10" {
				want += e.Score * weights[name]
			}
		}
	}
	if result.Top[0].ID != "10" || !almostEqual(result.Top[0].Score, want) {
		t.Errorf("Top[0] = %s/%g, want 10/%g", result.Top[0].ID, result.Top[0].Score, want)
	}
}

func TestPerformerEngineAgeWindow(t *testing.T) {
	t.Parallel()

	// Reference average age 30, tolerance 5: 33 scores 0.4, 35 sits on the
	// boundary at 0.0 but stays in, 40 is excluded outright.
	engine, err := NewPerformerEngine(DefaultPerformerConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewPerformerEngine() error = %v", err)
	}
	performers := []*models.Performer{
		{ID: "f1", Favorite: true, Age: intp(28)},
		{ID: "f2", Favorite: true, Age: intp(32)},
		{ID: "33", Age: intp(33)},
		{ID: "35", Age: intp(35)},
		{ID: "40", Age: intp(40)},
	}

	result := engine.Generate(performers, fixedNow)

	entries := result.Categories[CategorySimilarAge]
	if len(entries) != 2 {
		t.Fatalf("similar_age has %d entries, want 2", len(entries))
	}
	if entries[0].ID != "33" || !almostEqual(entries[0].Score, 0.4) {
		t.Errorf("entries[0] = %s/%g, want 33/0.4", entries[0].ID, entries[0].Score)
	}
	if entries[1].ID != "35" || !almostEqual(entries[1].Score, 0) {
		t.Errorf("entries[1] = %s/%g, want 35/0", entries[1].ID, entries[1].Score)
	}
}

func TestPerformerEngineCategoryCap(t *testing.T) {
	t.Parallel()

	cfg := DefaultPerformerConfig()
	cfg.MaxRecommendations = 2
	engine, err := NewPerformerEngine(cfg, testLogger())
	if err != nil {
		t.Fatalf("NewPerformerEngine() error = %v", err)
	}
	performers := []*models.Performer{
		{ID: "f1", Favorite: true, Age: intp(30)},
		{ID: "31", Age: intp(31)},
		{ID: "33", Age: intp(33)},
		{ID: "35", Age: intp(35)},
	}

	result := engine.Generate(performers, fixedNow)

	entries := result.Categories[CategorySimilarAge]
	if len(entries) != 2 {
		t.Fatalf("similar_age has %d entries, want the capped 2", len(entries))
	}
	if entries[0].ID != "31" || entries[1].ID != "33" {
		t.Errorf("capped entries = %s,%s; want the two closest ages", entries[0].ID, entries[1].ID)
	}
}

func TestPerformerEngineEmptyProfile(t *testing.T) {
	t.Parallel()

	// No favorites, no ratings, no usage: the profile is empty, yet the
	// run completes and the profile-independent categories still fill.
	engine, err := NewPerformerEngine(DefaultPerformerConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewPerformerEngine() error = %v", err)
	}
	performers := []*models.Performer{
		{ID: "1", Tags: tagNames("a", "b"), CreatedAt: daysAgo(5)},
		{ID: "2", Tags: tagNames("a"), CreatedAt: daysAgo(45)},
	}

	result := engine.Generate(performers, fixedNow)

	if result.ReferenceCount != 0 || result.FallbackUsed {
		t.Errorf("reference = %d (fallback %v), want an empty profile",
			result.ReferenceCount, result.FallbackUsed)
	}
	if result.CandidateCount != 2 {
		t.Errorf("CandidateCount = %d, want 2", result.CandidateCount)
	}

	for _, name := range []string{
		CategorySimilarCupSize,
		CategorySimilarProportions,
		CategorySimilarTags,
		CategorySimilarAge,
		CategorySimilarToFavorites,
	} {
		if entries := result.Categories[name]; len(entries) != 0 {
			t.Errorf("profile-dependent category %s has %d entries, want 0", name, len(entries))
		}
	}

	versatile := result.Categories[CategoryVersatile]
	if len(versatile) != 2 {
		t.Fatalf("versatile has %d entries, want 2", len(versatile))
	}
	if versatile[0].ID != "1" || !almostEqual(versatile[0].Score, 1.0) {
		t.Errorf("versatile[0] = %s/%g, want 1/1.0", versatile[0].ID, versatile[0].Score)
	}
	if versatile[1].ID != "2" || !almostEqual(versatile[1].Score, 0.5) {
		t.Errorf("versatile[1] = %s/%g, want 2/0.5", versatile[1].ID, versatile[1].Score)
	}

	novelty := result.Categories[CategoryNovelty]
	if len(novelty) != 1 || novelty[0].ID != "1" || !almostEqual(novelty[0].Score, 1-5.0/30.0) {
		t.Fatalf("novelty = %v, want only candidate 1 at %g", novelty, 1-5.0/30.0)
	}

	if len(result.Top) != 2 || result.Top[0].ID != "1" {
		t.Errorf("Top = %v, want candidate 1 leading", result.Top)
	}
}

func TestPerformerEngineFallback(t *testing.T) {
	t.Parallel()

	engine, err := NewPerformerEngine(DefaultPerformerConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewPerformerEngine() error = %v", err)
	}
	performers := []*models.Performer{
		{ID: "1", Rating100: intp(90), CupNumeric: 3},
		{ID: "2", Rating100: intp(70), CupNumeric: 4},
		{ID: "3", CupNumeric: 3},
	}

	result := engine.Generate(performers, fixedNow)

	if !result.FallbackUsed {
		t.Fatal("FallbackUsed = false, want rating fallback without favorites")
	}
	if result.ReferenceCount != 2 {
		t.Errorf("ReferenceCount = %d, want the 2 rated performers", result.ReferenceCount)
	}
	if result.CandidateCount != 1 {
		t.Errorf("CandidateCount = %d, want 1", result.CandidateCount)
	}

	cup := result.Categories[CategorySimilarCupSize]
	if len(cup) != 1 || cup[0].ID != "3" || !almostEqual(cup[0].Score, 0.875) {
		t.Fatalf("similar_cup_size = %v, want candidate 3 at 0.875", cup)
	}
}

func TestPerformerEngineDeterminism(t *testing.T) {
	t.Parallel()

	engine, err := NewPerformerEngine(DefaultPerformerConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewPerformerEngine() error = %v", err)
	}

	first := engine.Generate(performerFixture(), fixedNow)
	second := engine.Generate(performerFixture(), fixedNow)

	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same snapshot produced different results")
	}
}

func TestPerformerEngineOverrides(t *testing.T) {
	t.Parallel()

	engine, err := NewPerformerEngine(DefaultPerformerConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewPerformerEngine() error = %v", err)
	}

	base := engine.Generate(performerFixture(), fixedNow)

	// Zeroing the tag weight keeps the category visible but removes its
	// contribution (0.75 * 0.6) from the ranking.
	ov := ParsePerformerOverrides(map[string]string{"weight_tags": "0"}, testLogger())
	adjusted := engine.GenerateWithOverrides(performerFixture(), fixedNow, ov)

	if len(adjusted.Categories[CategorySimilarTags]) != 1 {
		t.Error("zero-weight category disappeared from the result")
	}
	if want := base.Top[0].Score - 0.75*0.6; !almostEqual(adjusted.Top[0].Score, want) {
		t.Errorf("adjusted top score = %g, want %g", adjusted.Top[0].Score, want)
	}

	// The engine configuration itself stays untouched.
	if got := engine.Config().Weights.Tags; got != 0.6 {
		t.Errorf("engine tag weight mutated to %g", got)
	}

	// An unknown override is dropped and the run matches the baseline.
	noop := engine.GenerateWithOverrides(performerFixture(), fixedNow,
		ParsePerformerOverrides(map[string]string{"weight_bogus": "3"}, testLogger()))
	if !reflect.DeepEqual(base, noop) {
		t.Error("unknown override changed the result")
	}
}
