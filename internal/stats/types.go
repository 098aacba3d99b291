// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package stats

import (
	"time"
)

// Bucket is one labelled count in a distribution.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ValueBucket is one numerically keyed count in a distribution.
type ValueBucket struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// TopEntry is one row in a ranked top list.
type TopEntry struct {
	// ID is the entity identifier in Stash.
	ID string `json:"id"`

	// Name is the display name: performer name or scene title.
	Name string `json:"name"`

	// Value is the ranking attribute: rating100 or play count.
	Value int `json:"value"`
}

// CupSummary describes the numeric cup-size sample across all performers
// with a parsed bra size.
type CupSummary struct {
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Min        int     `json:"min"`
	Max        int     `json:"max"`
	MeanLetter string  `json:"mean_letter"`
	MostCommon string  `json:"most_common"`
}

// PerformerStats aggregates the performer side of the library. Averages are
// computed over the performers carrying the attribute and are zero when no
// performer does.
type PerformerStats struct {
	TotalCount    int `json:"total_count"`
	FavoriteCount int `json:"favorite_count"`
	RatedCount    int `json:"rated_count"`
	WithCupSize   int `json:"with_cup_size"`
	WithBMI       int `json:"with_bmi"`
	WithAge       int `json:"with_age"`
	WithUsage     int `json:"with_usage"`
	TotalUsage    int `json:"total_usage"`

	// UsageShare is the fraction of performers with at least one play.
	UsageShare float64 `json:"usage_share"`

	AvgCupNumeric float64 `json:"avg_cup_numeric,omitempty"`
	AvgCupLetter  string  `json:"avg_cup_letter,omitempty"`
	AvgBMI        float64 `json:"avg_bmi,omitempty"`
	AvgAge        float64 `json:"avg_age,omitempty"`
	AvgRating     float64 `json:"avg_rating,omitempty"`
	AvgOCounter   float64 `json:"avg_o_counter,omitempty"`

	// CupDistribution counts performers per cup letter, ascending by letter.
	CupDistribution []Bucket `json:"cup_distribution"`

	// BMIDistribution counts performers per BMI category, in ascending BMI
	// order.
	BMIDistribution []Bucket `json:"bmi_distribution"`

	// AgeDistribution counts performers per reporting age range.
	AgeDistribution []Bucket `json:"age_distribution"`

	// RatingDistribution counts rated performers per star bucket (1..5).
	RatingDistribution []ValueBucket `json:"rating_distribution"`

	// CupSummary is nil when no performer has a parsed bra size.
	CupSummary *CupSummary `json:"cup_summary,omitempty"`

	TopTags  []Bucket   `json:"top_tags"`
	TopRated []TopEntry `json:"top_rated"`
	TopUsage []TopEntry `json:"top_usage"`
}

// SceneStats aggregates the scene side of the library.
type SceneStats struct {
	TotalCount int `json:"total_count"`
	RatedCount int `json:"rated_count"`
	WithUsage  int `json:"with_usage"`
	WithDate   int `json:"with_date"`
	TotalUsage int `json:"total_usage"`

	AvgRating   float64 `json:"avg_rating,omitempty"`
	AvgOCounter float64 `json:"avg_o_counter,omitempty"`

	// AvgDuration is the mean primary-file runtime in seconds, over scenes
	// with a positive runtime.
	AvgDuration float64 `json:"avg_duration,omitempty"`

	// AvgPerformerCount is the mean cast size over scenes with at least one
	// performer.
	AvgPerformerCount float64 `json:"avg_performer_count,omitempty"`

	// RatingDistribution counts rated scenes per star bucket (1..5).
	RatingDistribution []ValueBucket `json:"rating_distribution"`

	// UsageDistribution counts scenes per play count, zero included.
	UsageDistribution []ValueBucket `json:"usage_distribution"`

	// DurationDistribution counts scenes per runtime range.
	DurationDistribution []Bucket `json:"duration_distribution"`

	// PerformerCountDistribution counts scenes per cast size, zero included.
	PerformerCountDistribution []ValueBucket `json:"performer_count_distribution"`

	// StudioDistribution counts scenes per studio, ascending by name.
	StudioDistribution []Bucket `json:"studio_distribution"`

	// YearDistribution counts scenes per release year, ascending.
	YearDistribution []Bucket `json:"year_distribution"`

	TopTags    []Bucket   `json:"top_tags"`
	TopStudios []Bucket   `json:"top_studios"`
	TopRated   []TopEntry `json:"top_rated"`
	TopUsage   []TopEntry `json:"top_usage"`
}

// Correlation is one attribute-pair Pearson correlation.
type Correlation struct {
	Name           string  `json:"name"`
	Coefficient    float64 `json:"coefficient"`
	SampleSize     int     `json:"sample_size"`
	Interpretation string  `json:"interpretation"`
}

// CorrelationStats groups the attribute correlations by entity kind. Pairs
// with fewer samples than the configured minimum, and pairs where either
// series is constant, are omitted.
type CorrelationStats struct {
	Performer []Correlation `json:"performer"`
	Scene     []Correlation `json:"scene"`
}

// Summary is the complete statistics output for one library snapshot.
type Summary struct {
	// GeneratedAt is the reference time the snapshot was aggregated against.
	GeneratedAt time.Time `json:"generated_at"`

	Performers   PerformerStats   `json:"performers"`
	Scenes       SceneStats       `json:"scenes"`
	Correlations CorrelationStats `json:"correlations"`
}
