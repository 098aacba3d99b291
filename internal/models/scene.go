// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package models

import (
	"time"
)

// PerformerRef is a performer reference embedded in scenes.
type PerformerRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Favorite bool   `json:"favorite"`
}

// StudioRef is a studio reference embedded in scenes.
type StudioRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SceneFile carries file metadata for a scene.
type SceneFile struct {
	Duration float64 `json:"duration"`
	Size     int64   `json:"size"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

// Scene is a Stash scene with derived attributes.
type Scene struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Details     string         `json:"details,omitempty"`
	URL         string         `json:"url,omitempty"`
	Date        string         `json:"date,omitempty"`
	Rating100   *int           `json:"rating100,omitempty"`
	OCounter    int            `json:"o_counter"`
	Organized   bool           `json:"organized"`
	Interactive bool           `json:"interactive"`
	Performers  []PerformerRef `json:"performers,omitempty"`
	Tags        []TagRef       `json:"tags,omitempty"`
	Studio      *StudioRef     `json:"studio,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Files       []SceneFile    `json:"files,omitempty"`

	// Derived attributes, populated by Derive.
	Rating5 *float64 `json:"rating_5,omitempty"`
	AgeDays *int     `json:"age_days,omitempty"`

	// Performer aggregates, populated by EnrichWithPerformers.
	AvgPerformerCup        *float64 `json:"avg_performer_cup,omitempty"`
	AvgPerformerBMI        *float64 `json:"avg_performer_bmi,omitempty"`
	AvgPerformerAge        *float64 `json:"avg_performer_age,omitempty"`
	AvgPerformerRating     *float64 `json:"avg_performer_rating,omitempty"`
	HasHighRatedPerformers bool     `json:"has_high_rated_performers,omitempty"`
}

// highRatedPerformerCutoff is the rating100 at which a scene counts as
// featuring a high-rated performer.
const highRatedPerformerCutoff = 80

// Derive computes the derived attributes from the raw Stash fields.
func (s *Scene) Derive(now time.Time) {
	if s.Rating100 != nil {
		s.Rating5 = ptrFloat(round1(float64(*s.Rating100) / 20))
	}
	if s.Date != "" {
		if release, err := time.Parse("2006-01-02", s.Date); err == nil {
			days := int(now.Sub(release).Hours() / 24)
			s.AgeDays = &days
		}
	}
}

// EnrichWithPerformers computes per-scene performer aggregates from the full
// performer index. Scenes whose performers carry no usable attribute keep
// nil aggregates.
func (s *Scene) EnrichWithPerformers(byID map[string]*Performer) {
	var (
		cups, bmis, ages, ratings []float64
	)
	for _, ref := range s.Performers {
		p, ok := byID[ref.ID]
		if !ok {
			continue
		}
		if p.CupNumeric > 0 {
			cups = append(cups, float64(p.CupNumeric))
		}
		if p.BMI != nil {
			bmis = append(bmis, *p.BMI)
		}
		if p.Age != nil {
			ages = append(ages, float64(*p.Age))
		}
		if p.Rating100 != nil {
			ratings = append(ratings, float64(*p.Rating100))
			if *p.Rating100 >= highRatedPerformerCutoff {
				s.HasHighRatedPerformers = true
			}
		}
	}

	if avg, ok := mean(cups); ok {
		s.AvgPerformerCup = ptrFloat(round1(avg))
	}
	if avg, ok := mean(bmis); ok {
		s.AvgPerformerBMI = ptrFloat(round1(avg))
	}
	if avg, ok := mean(ages); ok {
		s.AvgPerformerAge = ptrFloat(round1(avg))
	}
	if avg, ok := mean(ratings); ok {
		s.AvgPerformerRating = ptrFloat(round1(avg))
	}
}

// HasFavoritePerformers reports whether any performer in the scene is a favorite.
func (s *Scene) HasFavoritePerformers() bool {
	for _, ref := range s.Performers {
		if ref.Favorite {
			return true
		}
	}
	return false
}

// PerformerIDSet returns the scene's performer IDs as a set.
func (s *Scene) PerformerIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Performers))
	for _, ref := range s.Performers {
		set[ref.ID] = struct{}{}
	}
	return set
}

// TagIDSet returns the scene's tag IDs as a set.
func (s *Scene) TagIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Tags))
	for _, t := range s.Tags {
		set[t.ID] = struct{}{}
	}
	return set
}

// Duration returns the duration of the scene's primary file in seconds,
// or 0 when no file is attached.
func (s *Scene) Duration() float64 {
	if len(s.Files) == 0 {
		return 0
	}
	return s.Files[0].Duration
}

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
