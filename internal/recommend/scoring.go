// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package recommend

import (
	"sort"
	"time"
)

// decaySimilarity returns the bounded linear decay similarity between a
// candidate value and a reference value: max(0, 1 - |diff|/maxDiff). The
// result is always in [0,1] and equals 1 only on an exact match. A
// non-positive maxDiff degenerates to exact matching: 1 for equal values,
// 0 otherwise.
func decaySimilarity(candidate, reference, maxDiff float64) float64 {
	diff := candidate - reference
	if diff < 0 {
		diff = -diff
	}
	if maxDiff <= 0 {
		if diff == 0 {
			return 1
		}
		return 0
	}
	sim := 1 - diff/maxDiff
	if sim < 0 {
		return 0
	}
	return sim
}

// jaccard returns |A∩B| / |A∪B| and reports whether the index is defined.
// It is undefined when either set is empty.
func jaccard(a, b map[string]struct{}) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	common := 0
	for k := range small {
		if _, ok := large[k]; ok {
			common++
		}
	}
	union := len(a) + len(b) - common
	return float64(common) / float64(union), true
}

// daysSince returns the fractional days elapsed from t to now.
func daysSince(now, t time.Time) float64 {
	return now.Sub(t).Hours() / 24
}

// noveltyScore scores how recently an entity entered the library. Entities
// older than the window are excluded rather than scored zero, so the novelty
// category only ever contains genuinely recent additions. Future timestamps
// (clock skew on the upstream server) count as brand new.
func noveltyScore(now, createdAt time.Time, windowDays int) (float64, bool) {
	if createdAt.IsZero() || windowDays <= 0 {
		return 0, false
	}
	days := daysSince(now, createdAt)
	if days > float64(windowDays) {
		return 0, false
	}
	if days < 0 {
		days = 0
	}
	return 1 - days/float64(windowDays), true
}

// qualityScore rescales a 0-100 rating into [0,1]. Entities below the floor
// or without a rating are excluded.
func qualityScore(rating100 *int, floor int) (float64, bool) {
	if rating100 == nil || *rating100 < floor {
		return 0, false
	}
	return float64(*rating100) / 100, true
}

// sortScoredPerformers orders a category list descending by score. The sort
// is stable so ties keep candidate insertion order, which makes repeated
// runs over the same snapshot reproducible.
func sortScoredPerformers(scored []ScoredPerformer) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}

// sortScoredScenes orders a category list descending by score, stable on ties.
func sortScoredScenes(scored []ScoredScene) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}

// sortScoredScenesByRating orders a binary-membership category descending by
// score with the scene rating as the documented secondary key, stable beyond
// that.
func sortScoredScenesByRating(scored []ScoredScene) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return rating100Of(scored[i].Scene.Rating100) > rating100Of(scored[j].Scene.Rating100)
	})
}

func rating100Of(r *int) int {
	if r == nil {
		return 0
	}
	return *r
}

// capPerformers truncates a sorted category list to its maximum length.
func capPerformers(scored []ScoredPerformer, maxLen int) []ScoredPerformer {
	if len(scored) > maxLen {
		return scored[:maxLen]
	}
	return scored
}

// capScenes truncates a sorted category list to its maximum length.
func capScenes(scored []ScoredScene, maxLen int) []ScoredScene {
	if len(scored) > maxLen {
		return scored[:maxLen]
	}
	return scored
}

// aggregatePerformers merges the category lists into the overall ranking.
// Every entry contributes score x category weight; empty and non-positively
// weighted categories are skipped entirely. Categories accumulate in the
// given order so floating point rounding is identical across runs. Ties in
// the final ordering break on performer ID.
func aggregatePerformers(categories map[string][]ScoredPerformer, order []string, weights map[string]float64, maxLen int) []ScoredPerformer {
	totals := make(map[string]float64)
	byID := make(map[string]*ScoredPerformer)

	for _, name := range order {
		weight := weights[name]
		entries := categories[name]
		if weight <= 0 || len(entries) == 0 {
			continue
		}
		for i := range entries {
			id := entries[i].Performer.ID
			totals[id] += entries[i].Score * weight
			if _, ok := byID[id]; !ok {
				byID[id] = &entries[i]
			}
		}
	}

	ranked := make([]ScoredPerformer, 0, len(totals))
	for id, total := range totals {
		ranked = append(ranked, ScoredPerformer{Performer: byID[id].Performer, Score: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Performer.ID < ranked[j].Performer.ID
	})
	return capPerformers(ranked, maxLen)
}

// aggregateScenes merges the category lists into the overall ranking, with
// the same ordering and tie-break guarantees as aggregatePerformers.
func aggregateScenes(categories map[string][]ScoredScene, order []string, weights map[string]float64, maxLen int) []ScoredScene {
	totals := make(map[string]float64)
	byID := make(map[string]*ScoredScene)

	for _, name := range order {
		weight := weights[name]
		entries := categories[name]
		if weight <= 0 || len(entries) == 0 {
			continue
		}
		for i := range entries {
			id := entries[i].Scene.ID
			totals[id] += entries[i].Score * weight
			if _, ok := byID[id]; !ok {
				byID[id] = &entries[i]
			}
		}
	}

	ranked := make([]ScoredScene, 0, len(totals))
	for id, total := range totals {
		ranked = append(ranked, ScoredScene{Scene: byID[id].Scene, Score: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Scene.ID < ranked[j].Scene.ID
	})
	return capScenes(ranked, maxLen)
}

// sortedKeys returns the map keys in ascending order, for deterministic
// iteration over maps.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
