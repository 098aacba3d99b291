// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

// Package recommend implements the performer and scene recommendation engines.
//
// # Architecture
//
// Both engines run the same single-pass pipeline over an in-memory library
// snapshot:
//
//	snapshot → preference profile → candidate pool → criterion scorers →
//	category lists → cross-category ranking → serialized result
//
// The preference profile is derived from favorites (performers) or watch
// history (scenes), widened by a high-signal set of well-rated or played
// entities. Each criterion scorer is a pure function from a candidate and
// the profile to an optional score; candidates missing the attributes a
// criterion needs are skipped for that criterion, never failed. Category
// lists are capped and sorted, then merged into a weighted overall ranking.
//
// # Criteria
//
// Performer categories: similar_cup_size, similar_proportions, similar_tags,
// similar_age, high_quality, novelty, versatile, similar_to_favorites.
//
// Scene categories: tag_similarity, favorite_performers, preferred_studios,
// high_quality_unwatched, novelty_unwatched, top_unwatched_overall.
//
// # Determinism
//
// Given an identical snapshot, configuration, and reference time, a run
// produces identical output: categories accumulate in a fixed order, ties
// resolve by insertion order or entity ID, and the reference time is passed
// in rather than read from the clock.
//
// # Usage
//
//	engine, err := recommend.NewPerformerEngine(recommend.DefaultPerformerConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	result := engine.Generate(performers, time.Now())
//
// Engines hold no per-run state and are safe for concurrent use; the
// performer and scene engines share nothing and may run in parallel.
package recommend
