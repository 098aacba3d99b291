// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package recommend

import (
	"testing"

	"github.com/tomtom215/curatarr/internal/models"
)

// --- Test: BuildPerformerProfile ---

func TestBuildPerformerProfileFavorites(t *testing.T) {
	t.Parallel()

	cfg := DefaultPerformerConfig()
	performers := []*models.Performer{
		{ID: "1", Favorite: true, CupNumeric: 3, Age: intp(28), Tags: tagNames("alpha", "beta")},
		{ID: "2", Favorite: true, CupNumeric: 4, Age: intp(32), Tags: tagNames("alpha", "gamma")},
		{ID: "3", CupNumeric: 8, Age: intp(50)},
	}

	profile := BuildPerformerProfile(performers, &cfg)

	if profile.Empty() {
		t.Fatal("Empty() = true with favorites present")
	}
	if profile.FallbackUsed {
		t.Error("FallbackUsed = true, want false when favorites exist")
	}
	if len(profile.Reference) != 2 {
		t.Fatalf("reference count = %d, want 2", len(profile.Reference))
	}
	if _, ok := profile.ReferenceIDs["3"]; ok {
		t.Error("non-favorite leaked into ReferenceIDs")
	}

	if !profile.HasCup || !almostEqual(profile.AvgCupNumeric, 3.5) {
		t.Errorf("AvgCupNumeric = %g (has=%v), want 3.5", profile.AvgCupNumeric, profile.HasCup)
	}
	if !profile.HasAge || !almostEqual(profile.AvgAge, 30) {
		t.Errorf("AvgAge = %g (has=%v), want 30", profile.AvgAge, profile.HasAge)
	}
	if profile.HasBMIToCup || profile.HasHeightToCup {
		t.Error("ratio averages flagged present without any ratio data")
	}
}

func TestBuildPerformerProfilePartialAttributes(t *testing.T) {
	t.Parallel()

	// Averages are computed over the references that carry the attribute,
	// not over the whole reference set.
	cfg := DefaultPerformerConfig()
	performers := []*models.Performer{
		{ID: "1", Favorite: true, CupNumeric: 2, BMIToCupRatio: floatp(8.0)},
		{ID: "2", Favorite: true, Age: intp(40)},
	}

	profile := BuildPerformerProfile(performers, &cfg)

	if !profile.HasCup || !almostEqual(profile.AvgCupNumeric, 2) {
		t.Errorf("AvgCupNumeric = %g, want 2 from the single holder", profile.AvgCupNumeric)
	}
	if !profile.HasBMIToCup || !almostEqual(profile.AvgBMIToCup, 8.0) {
		t.Errorf("AvgBMIToCup = %g, want 8.0", profile.AvgBMIToCup)
	}
	if !profile.HasAge || !almostEqual(profile.AvgAge, 40) {
		t.Errorf("AvgAge = %g, want 40", profile.AvgAge)
	}
}

func TestBuildPerformerProfileFallback(t *testing.T) {
	t.Parallel()

	cfg := DefaultPerformerConfig()
	cfg.FallbackTopK = 2
	performers := []*models.Performer{
		{ID: "1", Rating100: intp(70)},
		{ID: "2", Rating100: intp(95)},
		{ID: "3", Rating100: intp(80)},
		{ID: "4"},
	}

	profile := BuildPerformerProfile(performers, &cfg)

	if !profile.FallbackUsed {
		t.Fatal("FallbackUsed = false, want true without favorites")
	}
	if len(profile.Reference) != 2 {
		t.Fatalf("reference count = %d, want FallbackTopK", len(profile.Reference))
	}
	if profile.Reference[0].ID != "2" || profile.Reference[1].ID != "3" {
		t.Errorf("fallback reference = %s,%s; want the two highest rated",
			profile.Reference[0].ID, profile.Reference[1].ID)
	}
}

func TestBuildPerformerProfileEmpty(t *testing.T) {
	t.Parallel()

	cfg := DefaultPerformerConfig()
	performers := []*models.Performer{
		{ID: "1"},
		{ID: "2", OCounter: 3},
	}

	profile := BuildPerformerProfile(performers, &cfg)

	if !profile.Empty() {
		t.Error("Empty() = false with no favorites and no rated performers")
	}
	if profile.FallbackUsed {
		t.Error("FallbackUsed = true for an empty profile")
	}
}

func TestBuildPerformerProfilePreferredTags(t *testing.T) {
	t.Parallel()

	cfg := DefaultPerformerConfig()
	cfg.MinPreferenceOccurrence = 2

	// 1 is reference, 2 qualifies via rating, 3 via usage; 4 clears no
	// signal bar at all.
	performers := []*models.Performer{
		{ID: "1", Favorite: true, Tags: tagNames("alpha", "beta")},
		{ID: "2", Rating100: intp(90), Tags: tagNames("alpha")},
		{ID: "3", OCounter: 2, Tags: tagNames("beta")},
		{ID: "4", Rating100: intp(10), Tags: tagNames("gamma", "delta")},
	}

	profile := BuildPerformerProfile(performers, &cfg)

	if profile.HighSignalCount != 3 {
		t.Errorf("HighSignalCount = %d, want 3", profile.HighSignalCount)
	}
	if got := profile.PreferredTagCounts["alpha"]; got != 2 {
		t.Errorf("alpha count = %d, want 2", got)
	}
	if got := profile.PreferredTagCounts["beta"]; got != 2 {
		t.Errorf("beta count = %d, want 2", got)
	}
	if _, ok := profile.PreferredTags["alpha"]; !ok {
		t.Error("alpha missing from PreferredTags despite meeting the cutoff")
	}
	if _, ok := profile.PreferredTags["gamma"]; ok {
		t.Error("gamma counted from a low-signal performer")
	}
}

// --- Test: BuildSceneProfile ---

func TestBuildSceneProfile(t *testing.T) {
	t.Parallel()

	cfg := DefaultSceneConfig()
	studio := &models.StudioRef{ID: "st1", Name: "Studio One"}
	scenes := []*models.Scene{
		{ID: "s1", OCounter: 2, Rating100: intp(80), Tags: tagNames("t1", "t2"), Studio: studio},
		{ID: "s2", OCounter: 1, Rating100: intp(90), Tags: tagNames("t1", "t3"), Studio: studio},
		{ID: "s3", Rating100: intp(40), Tags: tagNames("t9")},
	}
	performers := []*models.Performer{
		{ID: "p1", Favorite: true},
		{ID: "p2"},
	}

	profile := BuildSceneProfile(scenes, performers, &cfg)

	if profile.Empty() {
		t.Fatal("Empty() = true with watched scenes present")
	}
	if len(profile.WatchedIDs) != 2 {
		t.Fatalf("watched count = %d, want 2", len(profile.WatchedIDs))
	}
	if _, ok := profile.WatchedIDs["s3"]; ok {
		t.Error("unwatched scene marked watched")
	}

	if _, ok := profile.FavoritePerformerIDs["p1"]; !ok {
		t.Error("favorite performer missing from FavoritePerformerIDs")
	}
	if _, ok := profile.FavoritePerformerIDs["p2"]; ok {
		t.Error("non-favorite performer included in FavoritePerformerIDs")
	}

	// t1 appears in both watched scenes and clears the occurrence cutoff
	// of 2; t2 and t3 appear once each and do not.
	if _, ok := profile.PreferredTagIDs["t1"]; !ok {
		t.Error("t1 missing from PreferredTagIDs")
	}
	if _, ok := profile.PreferredTagIDs["t2"]; ok {
		t.Error("t2 included despite a single occurrence")
	}
	if _, ok := profile.PreferredStudioIDs["st1"]; !ok {
		t.Error("st1 missing from PreferredStudioIDs")
	}
	// s3 is unwatched and rated below the preference floor.
	if _, ok := profile.PreferredTagIDs["t9"]; ok {
		t.Error("t9 counted from a low-signal scene")
	}
}

func TestBuildSceneProfileHighRatedUnwatched(t *testing.T) {
	t.Parallel()

	// A highly rated unwatched scene is a preference signal even though
	// it is not reference material.
	cfg := DefaultSceneConfig()
	cfg.MinPreferenceOccurrence = 1
	scenes := []*models.Scene{
		{ID: "s1", OCounter: 1, Tags: tagNames("t1")},
		{ID: "s2", Rating100: intp(90), Tags: tagNames("t2")},
	}

	profile := BuildSceneProfile(scenes, nil, &cfg)

	if _, ok := profile.WatchedIDs["s2"]; ok {
		t.Error("high-rated unwatched scene marked watched")
	}
	if _, ok := profile.PreferredTagIDs["t2"]; !ok {
		t.Error("tags of a high-rated scene missing from preferences")
	}
	if profile.HighSignalCount != 2 {
		t.Errorf("HighSignalCount = %d, want 2", profile.HighSignalCount)
	}
}

func TestBuildSceneProfileEmpty(t *testing.T) {
	t.Parallel()

	cfg := DefaultSceneConfig()
	scenes := []*models.Scene{
		{ID: "s1", Rating100: intp(95)},
	}

	profile := BuildSceneProfile(scenes, nil, &cfg)

	if !profile.Empty() {
		t.Error("Empty() = false with nothing watched")
	}
}
