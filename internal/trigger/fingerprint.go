// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package trigger

import (
	"crypto/md5" //nolint:gosec // G501: change fingerprint, not a security control
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/curatarr/internal/models"
)

// Fingerprints identifies the content of a library snapshot. Each group hash
// covers only the fields whose changes invalidate computed statistics and
// recommendations; cosmetic edits (titles, descriptions, file details) do not
// alter the fingerprint.
type Fingerprints struct {
	Performers string `json:"performers"`
	Scenes     string `json:"scenes"`
	Tags       string `json:"tags"`
	Combined   string `json:"combined"`
}

// Compute fingerprints a snapshot. Each entity contributes one line; lines
// are sorted before hashing so the result is a property of library content,
// not of API response order.
func Compute(performers []*models.Performer, scenes []*models.Scene, tags []*models.Tag) Fingerprints {
	performerLines := make([]string, 0, len(performers))
	for _, p := range performers {
		performerLines = append(performerLines, fmt.Sprintf("%s:%s:%d:%d:%d",
			p.ID, fingerprintTime(p.UpdatedAt), p.OCounter, ratingOrZero(p.Rating100), boolBit(p.Favorite)))
	}

	sceneLines := make([]string, 0, len(scenes))
	for _, s := range scenes {
		sceneLines = append(sceneLines, fmt.Sprintf("%s:%s:%d:%d",
			s.ID, fingerprintTime(s.UpdatedAt), s.OCounter, ratingOrZero(s.Rating100)))
	}

	tagLines := make([]string, 0, len(tags))
	for _, t := range tags {
		tagLines = append(tagLines, fmt.Sprintf("%s:%s:%d:%d",
			t.ID, fingerprintTime(t.UpdatedAt), t.SceneCount, t.PerformerCount))
	}

	fp := Fingerprints{
		Performers: hashLines(performerLines),
		Scenes:     hashLines(sceneLines),
		Tags:       hashLines(tagLines),
	}
	fp.Combined = hashString(fp.Performers + fp.Scenes + fp.Tags)
	return fp
}

// Equal reports whether both snapshots hash identically.
func (f Fingerprints) Equal(other Fingerprints) bool {
	return f.Combined == other.Combined
}

func hashLines(lines []string) string {
	sort.Strings(lines)
	return hashString(strings.Join(lines, "\n"))
}

func hashString(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec // G401: change fingerprint, not a security control
	return hex.EncodeToString(sum[:])
}

func fingerprintTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func ratingOrZero(r *int) int {
	if r == nil {
		return 0
	}
	return *r
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}
