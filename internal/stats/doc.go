// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

// Package stats computes aggregate library statistics from a snapshot of
// performers and scenes: counts, averages, distributions, top lists, and
// attribute correlations.
//
// All distributions are emitted as ordered slices rather than maps so the
// serialized output of two runs over the same snapshot is byte-identical.
// Ranked lists break count ties by label or entity ID, ascending.
//
// The collector is pure over its inputs: it never mutates the snapshot and
// holds no per-run state, so one collector can serve concurrent refreshes.
package stats
