// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package stats

import (
	"math"

	"github.com/tomtom215/curatarr/internal/models"
)

// computePerformerStats aggregates the performer snapshot. Attribute gaps
// shrink the sample for the affected average or distribution; they never
// exclude the performer from the overall counts.
func computePerformerStats(performers []*models.Performer, topN int) PerformerStats {
	s := PerformerStats{TotalCount: len(performers)}

	var (
		cups, bmis, ages, ratings, usage []float64

		cupCounts  = make(map[string]int)
		bmiCounts  = make(map[string]int)
		ageCounts  = make(map[string]int)
		starCounts = make(map[int]int)
		tagCounts  = make(map[string]int)

		cupMin, cupMax int
	)

	for _, p := range performers {
		if p.Favorite {
			s.FavoriteCount++
		}
		s.TotalUsage += p.OCounter
		if p.OCounter > 0 {
			s.WithUsage++
			usage = append(usage, float64(p.OCounter))
		}
		if p.Rating100 != nil {
			s.RatedCount++
			ratings = append(ratings, float64(*p.Rating100))
			starCounts[models.RatingStars(*p.Rating100)]++
		}
		if p.CupNumeric > 0 {
			s.WithCupSize++
			cups = append(cups, float64(p.CupNumeric))
			cupCounts[p.CupSize]++
			if cupMin == 0 || p.CupNumeric < cupMin {
				cupMin = p.CupNumeric
			}
			if p.CupNumeric > cupMax {
				cupMax = p.CupNumeric
			}
		}
		if p.BMI != nil {
			s.WithBMI++
			bmis = append(bmis, *p.BMI)
			if p.BMICategory != "" {
				bmiCounts[p.BMICategory]++
			}
		}
		if p.Age != nil {
			s.WithAge++
			ages = append(ages, float64(*p.Age))
			ageCounts[models.AgeGroup(*p.Age)]++
		}
		for _, t := range p.Tags {
			tagCounts[t.Name]++
		}
	}

	if s.TotalCount > 0 {
		s.UsageShare = round2(float64(s.WithUsage) / float64(s.TotalCount))
	}
	if avg, ok := mean(cups); ok {
		s.AvgCupNumeric = round2(avg)
		s.AvgCupLetter = models.CupLetter(int(math.Round(avg)))
	}
	if avg, ok := mean(bmis); ok {
		s.AvgBMI = round2(avg)
	}
	if avg, ok := mean(ages); ok {
		s.AvgAge = round2(avg)
	}
	if avg, ok := mean(ratings); ok {
		s.AvgRating = round2(avg)
	}
	if avg, ok := mean(usage); ok {
		s.AvgOCounter = round2(avg)
	}

	s.CupDistribution = sortedBuckets(cupCounts)
	s.BMIDistribution = orderedBuckets(bmiCounts, models.BMICategories())
	s.AgeDistribution = orderedBuckets(ageCounts, models.AgeGroups())
	s.RatingDistribution = sortedValueBuckets(starCounts)
	s.CupSummary = cupSummary(cups, cupCounts, cupMin, cupMax)

	s.TopTags = rankedBuckets(tagCounts, topN)
	s.TopRated = topPerformers(performers, topN, func(p *models.Performer) (int, bool) {
		if p.Rating100 == nil {
			return 0, false
		}
		return *p.Rating100, true
	})
	s.TopUsage = topPerformers(performers, topN, func(p *models.Performer) (int, bool) {
		return p.OCounter, p.OCounter > 0
	})

	return s
}

// cupSummary builds the numeric cup-size summary, or nil when no performer
// carries a parsed bra size.
func cupSummary(cups []float64, counts map[string]int, cupMin, cupMax int) *CupSummary {
	avg, ok := mean(cups)
	if !ok {
		return nil
	}
	return &CupSummary{
		Count:      len(cups),
		Mean:       round2(avg),
		StdDev:     round2(stdDev(cups, avg)),
		Min:        cupMin,
		Max:        cupMax,
		MeanLetter: models.CupLetter(int(math.Round(avg))),
		MostCommon: mostCommonLabel(counts),
	}
}

// topPerformers ranks performers by the extracted value descending, ties by
// ID ascending, capped at limit. Performers the extractor rejects are
// skipped.
func topPerformers(performers []*models.Performer, limit int, value func(*models.Performer) (int, bool)) []TopEntry {
	entries := make([]TopEntry, 0, len(performers))
	for _, p := range performers {
		v, ok := value(p)
		if !ok {
			continue
		}
		entries = append(entries, TopEntry{ID: p.ID, Name: p.Name, Value: v})
	}
	return capTopEntries(entries, limit)
}
