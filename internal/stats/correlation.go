// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package stats

import (
	"math"

	"github.com/tomtom215/curatarr/internal/models"
)

// sample accumulates paired observations for one correlation.
type sample struct {
	name string
	xs   []float64
	ys   []float64
}

func (s *sample) add(x, y float64) {
	s.xs = append(s.xs, x)
	s.ys = append(s.ys, y)
}

// computeCorrelations evaluates the fixed attribute pairs over the snapshot.
func computeCorrelations(performers []*models.Performer, scenes []*models.Scene, minSamples int) CorrelationStats {
	return CorrelationStats{
		Performer: performerCorrelations(performers, minSamples),
		Scene:     sceneCorrelations(scenes, minSamples),
	}
}

func performerCorrelations(performers []*models.Performer, minSamples int) []Correlation {
	cupRating := &sample{name: "cup_size_vs_rating"}
	cupUsage := &sample{name: "cup_size_vs_o_counter"}
	bmiRating := &sample{name: "bmi_vs_rating"}
	ageRating := &sample{name: "age_vs_rating"}

	for _, p := range performers {
		if p.CupNumeric > 0 && p.Rating100 != nil {
			cupRating.add(float64(p.CupNumeric), float64(*p.Rating100))
		}
		if p.CupNumeric > 0 && p.OCounter > 0 {
			cupUsage.add(float64(p.CupNumeric), float64(p.OCounter))
		}
		if p.BMI != nil && p.Rating100 != nil {
			bmiRating.add(*p.BMI, float64(*p.Rating100))
		}
		if p.Age != nil && p.Rating100 != nil {
			ageRating.add(float64(*p.Age), float64(*p.Rating100))
		}
	}

	return collectCorrelations(minSamples, cupRating, cupUsage, bmiRating, ageRating)
}

func sceneCorrelations(scenes []*models.Scene, minSamples int) []Correlation {
	ratingUsage := &sample{name: "rating_vs_o_counter"}
	durationRating := &sample{name: "duration_vs_rating"}
	ageRating := &sample{name: "age_vs_rating"}

	for _, sc := range scenes {
		if sc.Rating100 != nil && sc.OCounter > 0 {
			ratingUsage.add(float64(*sc.Rating100), float64(sc.OCounter))
		}
		if d := sc.Duration(); d > 0 && sc.Rating100 != nil {
			durationRating.add(d, float64(*sc.Rating100))
		}
		if sc.AgeDays != nil && sc.Rating100 != nil {
			ageRating.add(float64(*sc.AgeDays), float64(*sc.Rating100))
		}
	}

	return collectCorrelations(minSamples, ratingUsage, durationRating, ageRating)
}

// collectCorrelations evaluates each sample in the given order, skipping
// pairs below the minimum size and pairs with a constant series.
func collectCorrelations(minSamples int, samples ...*sample) []Correlation {
	out := make([]Correlation, 0, len(samples))
	for _, s := range samples {
		if len(s.xs) < minSamples {
			continue
		}
		r, ok := pearson(s.xs, s.ys)
		if !ok {
			continue
		}
		r = round2(r)
		out = append(out, Correlation{
			Name:           s.name,
			Coefficient:    r,
			SampleSize:     len(s.xs),
			Interpretation: interpretCorrelation(r),
		})
	}
	return out
}

// pearson computes the Pearson correlation coefficient. ok is false when
// either series is constant, where the coefficient is undefined.
func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

// interpretCorrelation renders a coefficient as a reader-facing phrase such
// as "moderate positive correlation".
func interpretCorrelation(r float64) string {
	abs := math.Abs(r)

	var strength string
	switch {
	case abs < 0.1:
		strength = "negligible"
	case abs < 0.3:
		strength = "weak"
	case abs < 0.5:
		strength = "moderate"
	case abs < 0.7:
		strength = "strong"
	default:
		strength = "very strong"
	}

	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	return strength + " " + direction + " correlation"
}
