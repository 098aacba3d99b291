// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package recommend

import (
	"sort"

	"github.com/tomtom215/curatarr/internal/models"
)

// PerformerProfile captures the taste signals one run scores against:
// the reference set (favorites, or a top-rated fallback), attribute averages
// over that set, and the tags preferred across the high-signal performers.
// Building the profile is a pure function of the snapshot; an empty library
// yields an empty profile, never an error.
type PerformerProfile struct {
	// Reference is the set preferences derive from, in snapshot order.
	Reference []*models.Performer

	// ReferenceIDs indexes Reference for candidate exclusion.
	ReferenceIDs map[string]struct{}

	// FallbackUsed reports that no favorites existed and the top-rated
	// performers stand in as the reference set.
	FallbackUsed bool

	// Attribute averages over the reference performers that carry the
	// attribute. The Has flags distinguish "average is zero" from "no
	// reference performer has this attribute".
	AvgCupNumeric  float64
	HasCup         bool
	AvgBMIToCup    float64
	HasBMIToCup    bool
	AvgHeightToCup float64
	HasHeightToCup bool
	AvgAge         float64
	HasAge         bool

	// PreferredTagCounts maps tag names to how many high-signal performers
	// carry them, after the minimum-occurrence cutoff.
	PreferredTagCounts map[string]int

	// PreferredTags is the key set of PreferredTagCounts.
	PreferredTags map[string]struct{}

	// HighSignalCount is the size of the set preferences were counted over.
	HighSignalCount int
}

// Empty reports whether the profile has no reference performers. Profile
// dependent criteria produce empty categories against an empty profile.
func (p *PerformerProfile) Empty() bool {
	return len(p.Reference) == 0
}

// BuildPerformerProfile derives the preference profile from a library
// snapshot.
func BuildPerformerProfile(performers []*models.Performer, cfg *PerformerConfig) *PerformerProfile {
	reference := make([]*models.Performer, 0)
	for _, p := range performers {
		if p.Favorite {
			reference = append(reference, p)
		}
	}

	fallback := false
	if len(reference) == 0 {
		reference = topRatedPerformers(performers, cfg.FallbackTopK)
		fallback = len(reference) > 0
	}

	profile := &PerformerProfile{
		Reference:    reference,
		ReferenceIDs: make(map[string]struct{}, len(reference)),
		FallbackUsed: fallback,
	}
	for _, p := range reference {
		profile.ReferenceIDs[p.ID] = struct{}{}
	}

	profile.computeAverages()
	profile.countPreferredTags(performers, cfg)
	return profile
}

// topRatedPerformers returns the k highest-rated performers, ties keeping
// snapshot order. Performers without a rating never qualify.
func topRatedPerformers(performers []*models.Performer, k int) []*models.Performer {
	rated := make([]*models.Performer, 0)
	for _, p := range performers {
		if p.Rating100 != nil {
			rated = append(rated, p)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return *rated[i].Rating100 > *rated[j].Rating100
	})
	if len(rated) > k {
		rated = rated[:k]
	}
	return rated
}

func (p *PerformerProfile) computeAverages() {
	var cupSum, bmiSum, heightSum, ageSum float64
	var cupN, bmiN, heightN, ageN int

	for _, ref := range p.Reference {
		if ref.CupNumeric > 0 {
			cupSum += float64(ref.CupNumeric)
			cupN++
		}
		if ref.BMIToCupRatio != nil {
			bmiSum += *ref.BMIToCupRatio
			bmiN++
		}
		if ref.HeightToCupRatio != nil {
			heightSum += *ref.HeightToCupRatio
			heightN++
		}
		if ref.Age != nil {
			ageSum += float64(*ref.Age)
			ageN++
		}
	}

	if cupN > 0 {
		p.AvgCupNumeric = cupSum / float64(cupN)
		p.HasCup = true
	}
	if bmiN > 0 {
		p.AvgBMIToCup = bmiSum / float64(bmiN)
		p.HasBMIToCup = true
	}
	if heightN > 0 {
		p.AvgHeightToCup = heightSum / float64(heightN)
		p.HasHeightToCup = true
	}
	if ageN > 0 {
		p.AvgAge = ageSum / float64(ageN)
		p.HasAge = true
	}
}

// countPreferredTags accumulates tag occurrences over the high-signal set:
// reference performers plus anything meeting the usage or rating threshold.
func (p *PerformerProfile) countPreferredTags(performers []*models.Performer, cfg *PerformerConfig) {
	counts := make(map[string]int)
	for _, perf := range performers {
		if !p.isHighSignal(perf, cfg) {
			continue
		}
		p.HighSignalCount++
		for name := range perf.TagNameSet() {
			counts[name]++
		}
	}

	p.PreferredTagCounts = make(map[string]int)
	p.PreferredTags = make(map[string]struct{})
	for name, n := range counts {
		if n >= cfg.MinPreferenceOccurrence {
			p.PreferredTagCounts[name] = n
			p.PreferredTags[name] = struct{}{}
		}
	}
}

func (p *PerformerProfile) isHighSignal(perf *models.Performer, cfg *PerformerConfig) bool {
	if _, ok := p.ReferenceIDs[perf.ID]; ok {
		return true
	}
	if perf.OCounter >= cfg.MinUsageForPreference {
		return true
	}
	return perf.Rating100 != nil && *perf.Rating100 >= cfg.MinRatingForPreference
}

// SceneProfile captures the watch-history signals the scene engine scores
// against. The watched set is the reference: watched scenes are excluded
// from candidacy, and preferences are counted over watched plus high-rated
// scenes. Favorite performer IDs come from the performer snapshot, not from
// scenes.
type SceneProfile struct {
	// WatchedIDs holds scenes with enough plays to count as watched.
	WatchedIDs map[string]struct{}

	// FavoritePerformerIDs holds the IDs of favorited performers.
	FavoritePerformerIDs map[string]struct{}

	// PreferredTagCounts maps tag IDs to how many high-signal scenes carry
	// them, after the minimum-occurrence cutoff.
	PreferredTagCounts map[string]int

	// PreferredTagIDs is the key set of PreferredTagCounts.
	PreferredTagIDs map[string]struct{}

	// PreferredStudioCounts maps studio IDs to their high-signal occurrence
	// count, after the cutoff.
	PreferredStudioCounts map[string]int

	// PreferredStudioIDs is the key set of PreferredStudioCounts.
	PreferredStudioIDs map[string]struct{}

	// HighSignalCount is the size of the set preferences were counted over.
	HighSignalCount int
}

// Empty reports whether the profile derives from no watched scenes. Unlike
// the performer profile there is no rating fallback: an unwatched library
// legitimately has top-rated scenes as candidates, so conscripting them as
// reference would exclude exactly the scenes worth recommending.
func (p *SceneProfile) Empty() bool {
	return len(p.WatchedIDs) == 0
}

// BuildSceneProfile derives the scene preference profile from the scene and
// performer snapshots.
func BuildSceneProfile(scenes []*models.Scene, performers []*models.Performer, cfg *SceneConfig) *SceneProfile {
	profile := &SceneProfile{
		WatchedIDs:           make(map[string]struct{}),
		FavoritePerformerIDs: make(map[string]struct{}),
	}

	for _, p := range performers {
		if p.Favorite {
			profile.FavoritePerformerIDs[p.ID] = struct{}{}
		}
	}

	tagCounts := make(map[string]int)
	studioCounts := make(map[string]int)
	for _, s := range scenes {
		watched := s.OCounter >= cfg.MinPlaysForPreference
		if watched {
			profile.WatchedIDs[s.ID] = struct{}{}
		}
		highRated := s.Rating100 != nil && *s.Rating100 >= cfg.MinRatingForPreference
		if !watched && !highRated {
			continue
		}
		profile.HighSignalCount++
		for id := range s.TagIDSet() {
			tagCounts[id]++
		}
		if s.Studio != nil && s.Studio.ID != "" {
			studioCounts[s.Studio.ID]++
		}
	}

	profile.PreferredTagCounts = make(map[string]int)
	profile.PreferredTagIDs = make(map[string]struct{})
	for id, n := range tagCounts {
		if n >= cfg.MinPreferenceOccurrence {
			profile.PreferredTagCounts[id] = n
			profile.PreferredTagIDs[id] = struct{}{}
		}
	}

	profile.PreferredStudioCounts = make(map[string]int)
	profile.PreferredStudioIDs = make(map[string]struct{})
	for id, n := range studioCounts {
		if n >= cfg.MinPreferenceOccurrence {
			profile.PreferredStudioCounts[id] = n
			profile.PreferredStudioIDs[id] = struct{}{}
		}
	}

	return profile
}
