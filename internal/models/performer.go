// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

// Package models defines the Stash library entities and the derived
// attributes used by the statistics and recommendation pipelines.
// Entities decode directly from Stash GraphQL responses; Derive fills in
// the computed fields afterwards. Missing source data yields nil or zero
// derived values, which downstream scorers treat as "not applicable".
package models

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// TagRef is a tag reference embedded in performers and scenes.
type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BMI categories on the standard WHO cutoffs.
const (
	BMIUnderweight = "underweight"
	BMINormal      = "normal"
	BMIOverweight  = "overweight"
	BMIObese       = "obese"
)

// cupNumeric maps US cup letters onto a linear 1..10 scale so cup sizes can
// be averaged and compared. DD and DDD are aliases of E and F.
var cupNumeric = map[string]int{
	"A": 1, "B": 2, "C": 3, "D": 4,
	"E": 5, "DD": 5, "F": 6, "DDD": 6,
	"G": 7, "H": 8, "I": 9, "J": 10,
}

// cupLetterForNumeric is the reverse mapping used for display.
var cupLetterForNumeric = map[int]string{
	1: "A", 2: "B", 3: "C", 4: "D",
	5: "E", 6: "F", 7: "G", 8: "H",
	9: "I", 10: "J",
}

// bandConversion maps common US band sizes to EU band sizes. Bands outside
// the table fall back to round((us+16)/2)*5.
var bandConversion = map[int]int{
	28: 60, 30: 65, 32: 70, 34: 75, 36: 80,
	38: 85, 40: 90, 42: 95, 44: 100, 46: 105,
}

// cupConversion maps US cup letters to EU letters where they differ.
var cupConversion = map[string]string{
	"DD": "E", "DDD": "F",
}

// braSizePattern extracts a band-and-cup pair such as "34DD" from a free-form
// measurements string like "34DD-24-36".
var braSizePattern = regexp.MustCompile(`(\d{2,3})([A-HJ-Z]+)`)

// Performer is a Stash performer with derived attributes.
type Performer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Gender       string    `json:"gender,omitempty"`
	Birthdate    string    `json:"birthdate,omitempty"`
	Country      string    `json:"country,omitempty"`
	Ethnicity    string    `json:"ethnicity,omitempty"`
	EyeColor     string    `json:"eye_color,omitempty"`
	HairColor    string    `json:"hair_color,omitempty"`
	HeightCM     int       `json:"height_cm,omitempty"`
	Weight       int       `json:"weight,omitempty"`
	Measurements string    `json:"measurements,omitempty"`
	Favorite     bool      `json:"favorite"`
	Rating100    *int      `json:"rating100,omitempty"`
	SceneCount   int       `json:"scene_count"`
	OCounter     int       `json:"o_counter"`
	Tags         []TagRef  `json:"tags,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Derived attributes, populated by Derive.
	Age              *int     `json:"age,omitempty"`
	BMI              *float64 `json:"bmi,omitempty"`
	BMICategory      string   `json:"bmi_category,omitempty"`
	USBraSize        string   `json:"us_bra_size,omitempty"`
	EUBraSize        string   `json:"eu_bra_size,omitempty"`
	CupSize          string   `json:"cup_size,omitempty"`
	BandSize         string   `json:"band_size,omitempty"`
	CupNumeric       int      `json:"cup_numeric,omitempty"`
	BMIToCupRatio    *float64 `json:"bmi_to_cup_ratio,omitempty"`
	HeightToCupRatio *float64 `json:"height_to_cup_ratio,omitempty"`
	Rating5          *float64 `json:"rating_5,omitempty"`
}

// Derive computes all derived attributes from the raw Stash fields.
// The reference time is injected so runs are reproducible in tests.
func (p *Performer) Derive(now time.Time) {
	p.Age = ageAt(p.Birthdate, now)
	p.deriveBMI()
	p.deriveBraSize()

	if p.BMI != nil && p.CupNumeric > 0 {
		p.BMIToCupRatio = ptrFloat(round2(*p.BMI / float64(p.CupNumeric)))
	}
	if p.HeightCM > 0 && p.CupNumeric > 0 {
		p.HeightToCupRatio = ptrFloat(round2(float64(p.HeightCM) / float64(p.CupNumeric)))
	}
	if p.Rating100 != nil {
		p.Rating5 = ptrFloat(round1(float64(*p.Rating100) / 20))
	}
}

func (p *Performer) deriveBMI() {
	if p.HeightCM <= 0 || p.Weight <= 0 {
		return
	}
	heightM := float64(p.HeightCM) / 100
	bmi := round1(float64(p.Weight) / (heightM * heightM))
	p.BMI = &bmi

	switch {
	case bmi < 18.5:
		p.BMICategory = BMIUnderweight
	case bmi < 25:
		p.BMICategory = BMINormal
	case bmi < 30:
		p.BMICategory = BMIOverweight
	default:
		p.BMICategory = BMIObese
	}
}

func (p *Performer) deriveBraSize() {
	if p.Measurements == "" {
		return
	}
	match := braSizePattern.FindStringSubmatch(p.Measurements)
	if match == nil {
		return
	}

	usBand, err := strconv.Atoi(match[1])
	if err != nil {
		return
	}
	usCup := match[2]

	euBand, ok := bandConversion[usBand]
	if !ok {
		euBand = int(math.Round(float64(usBand+16)/2)) * 5
	}
	euCup, ok := cupConversion[usCup]
	if !ok {
		euCup = usCup
	}

	p.USBraSize = match[1] + usCup
	p.EUBraSize = strconv.Itoa(euBand) + euCup
	p.CupSize = usCup
	p.BandSize = match[1]
	p.CupNumeric = cupNumeric[usCup]
}

// TagNames returns the performer's tag names in source order.
func (p *Performer) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// TagNameSet returns the performer's tag names as a set.
func (p *Performer) TagNameSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Tags))
	for _, t := range p.Tags {
		set[t.Name] = struct{}{}
	}
	return set
}

// CupLetter returns the display letter for a numeric cup value, or "?" for
// values outside the scale.
func CupLetter(numeric int) string {
	if letter, ok := cupLetterForNumeric[numeric]; ok {
		return letter
	}
	return "?"
}

// RatingStars converts a 0-100 rating to a 1..5 star bucket.
func RatingStars(rating100 int) int {
	stars := int(math.Round(float64(rating100) / 20))
	if stars < 1 {
		return 1
	}
	if stars > 5 {
		return 5
	}
	return stars
}

// AgeGroup buckets an age into the reporting ranges used by statistics.
func AgeGroup(age int) string {
	switch {
	case age <= 25:
		return "18-25"
	case age <= 30:
		return "26-30"
	case age <= 35:
		return "31-35"
	case age <= 40:
		return "36-40"
	case age <= 45:
		return "41-45"
	default:
		return "46+"
	}
}

// AgeGroups returns the reporting age ranges in ascending order.
func AgeGroups() []string {
	return []string{"18-25", "26-30", "31-35", "36-40", "41-45", "46+"}
}

// BMICategories returns the BMI category names in ascending BMI order.
func BMICategories() []string {
	return []string{BMIUnderweight, BMINormal, BMIOverweight, BMIObese}
}

// ageAt computes completed years between an ISO date string and now.
func ageAt(birthdate string, now time.Time) *int {
	if birthdate == "" {
		return nil
	}
	birth, err := time.Parse("2006-01-02", birthdate)
	if err != nil {
		return nil
	}

	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return &years
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptrFloat(v float64) *float64 {
	return &v
}
