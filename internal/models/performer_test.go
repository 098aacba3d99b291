// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package models

import (
	"testing"
	"time"
)

// fixedNow keeps age and novelty derivations reproducible.
var fixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func TestDeriveBraSize(t *testing.T) {
	tests := []struct {
		name           string
		measurements   string
		wantUS         string
		wantEU         string
		wantCup        string
		wantBand       string
		wantCupNumeric int
	}{
		{
			name:           "standard size",
			measurements:   "34C-24-36",
			wantUS:         "34C",
			wantEU:         "75C",
			wantCup:        "C",
			wantBand:       "34",
			wantCupNumeric: 3,
		},
		{
			name:           "double D alias",
			measurements:   "32DD-23-33",
			wantUS:         "32DD",
			wantEU:         "70E",
			wantCup:        "DD",
			wantBand:       "32",
			wantCupNumeric: 5,
		},
		{
			name:           "triple D alias",
			measurements:   "36DDD-26-38",
			wantUS:         "36DDD",
			wantEU:         "80F",
			wantCup:        "DDD",
			wantBand:       "36",
			wantCupNumeric: 6,
		},
		{
			name:           "bare size without hyphens",
			measurements:   "28A",
			wantUS:         "28A",
			wantEU:         "60A",
			wantCup:        "A",
			wantBand:       "28",
			wantCupNumeric: 1,
		},
		{
			name:           "band outside conversion table",
			measurements:   "48G-30-40",
			wantUS:         "48G",
			wantEU:         "160G",
			wantCup:        "G",
			wantBand:       "48",
			wantCupNumeric: 7,
		},
		{
			name:         "metric only measurements",
			measurements: "90-60-90",
		},
		{
			name:         "empty measurements",
			measurements: "",
		},
		{
			name:         "free text",
			measurements: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Performer{Measurements: tt.measurements}
			p.Derive(fixedNow)

			if p.USBraSize != tt.wantUS {
				t.Errorf("USBraSize = %q, want %q", p.USBraSize, tt.wantUS)
			}
			if p.EUBraSize != tt.wantEU {
				t.Errorf("EUBraSize = %q, want %q", p.EUBraSize, tt.wantEU)
			}
			if p.CupSize != tt.wantCup {
				t.Errorf("CupSize = %q, want %q", p.CupSize, tt.wantCup)
			}
			if p.BandSize != tt.wantBand {
				t.Errorf("BandSize = %q, want %q", p.BandSize, tt.wantBand)
			}
			if p.CupNumeric != tt.wantCupNumeric {
				t.Errorf("CupNumeric = %d, want %d", p.CupNumeric, tt.wantCupNumeric)
			}
		})
	}
}

func TestDeriveBMI(t *testing.T) {
	tests := []struct {
		name         string
		heightCM     int
		weight       int
		wantBMI      float64
		wantCategory string
		wantNil      bool
	}{
		{
			name:         "normal weight",
			heightCM:     170,
			weight:       60,
			wantBMI:      20.8,
			wantCategory: BMINormal,
		},
		{
			name:         "underweight boundary",
			heightCM:     170,
			weight:       53,
			wantBMI:      18.3,
			wantCategory: BMIUnderweight,
		},
		{
			name:         "overweight",
			heightCM:     165,
			weight:       72,
			wantBMI:      26.4,
			wantCategory: BMIOverweight,
		},
		{
			name:         "obese",
			heightCM:     160,
			weight:       80,
			wantBMI:      31.3,
			wantCategory: BMIObese,
		},
		{
			name:     "missing height",
			heightCM: 0,
			weight:   60,
			wantNil:  true,
		},
		{
			name:     "missing weight",
			heightCM: 170,
			weight:   0,
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Performer{HeightCM: tt.heightCM, Weight: tt.weight}
			p.Derive(fixedNow)

			if tt.wantNil {
				if p.BMI != nil {
					t.Errorf("BMI = %v, want nil", *p.BMI)
				}
				if p.BMICategory != "" {
					t.Errorf("BMICategory = %q, want empty", p.BMICategory)
				}
				return
			}

			if p.BMI == nil {
				t.Fatal("BMI = nil, want value")
			}
			if *p.BMI != tt.wantBMI {
				t.Errorf("BMI = %v, want %v", *p.BMI, tt.wantBMI)
			}
			if p.BMICategory != tt.wantCategory {
				t.Errorf("BMICategory = %q, want %q", p.BMICategory, tt.wantCategory)
			}
		})
	}
}

func TestDeriveRatios(t *testing.T) {
	rating := 84
	p := &Performer{
		HeightCM:     170,
		Weight:       60,
		Measurements: "34C-24-36",
		Rating100:    &rating,
	}
	p.Derive(fixedNow)

	// BMI 20.8 / cup 3
	if p.BMIToCupRatio == nil || *p.BMIToCupRatio != 6.93 {
		t.Errorf("BMIToCupRatio = %v, want 6.93", p.BMIToCupRatio)
	}
	// height 170 / cup 3
	if p.HeightToCupRatio == nil || *p.HeightToCupRatio != 56.67 {
		t.Errorf("HeightToCupRatio = %v, want 56.67", p.HeightToCupRatio)
	}
	if p.Rating5 == nil || *p.Rating5 != 4.2 {
		t.Errorf("Rating5 = %v, want 4.2", p.Rating5)
	}
}

func TestDeriveRatiosMissingCup(t *testing.T) {
	p := &Performer{HeightCM: 170, Weight: 60}
	p.Derive(fixedNow)

	if p.BMIToCupRatio != nil {
		t.Errorf("BMIToCupRatio = %v, want nil without cup size", *p.BMIToCupRatio)
	}
	if p.HeightToCupRatio != nil {
		t.Errorf("HeightToCupRatio = %v, want nil without cup size", *p.HeightToCupRatio)
	}
}

func TestAgeAt(t *testing.T) {
	tests := []struct {
		name      string
		birthdate string
		want      int
		wantNil   bool
	}{
		{
			name:      "birthday already passed this year",
			birthdate: "1996-03-10",
			want:      30,
		},
		{
			name:      "birthday later this year",
			birthdate: "1996-11-02",
			want:      29,
		},
		{
			name:      "birthday today",
			birthdate: "2000-06-15",
			want:      26,
		},
		{
			name:    "empty birthdate",
			wantNil: true,
		},
		{
			name:      "malformed birthdate",
			birthdate: "not-a-date",
			wantNil:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Performer{Birthdate: tt.birthdate}
			p.Derive(fixedNow)

			if tt.wantNil {
				if p.Age != nil {
					t.Errorf("Age = %d, want nil", *p.Age)
				}
				return
			}
			if p.Age == nil {
				t.Fatal("Age = nil, want value")
			}
			if *p.Age != tt.want {
				t.Errorf("Age = %d, want %d", *p.Age, tt.want)
			}
		})
	}
}

func TestRatingStars(t *testing.T) {
	tests := []struct {
		rating100 int
		want      int
	}{
		{0, 1},
		{5, 1},
		{20, 1},
		{45, 2},
		{60, 3},
		{84, 4},
		{100, 5},
		{120, 5},
	}

	for _, tt := range tests {
		if got := RatingStars(tt.rating100); got != tt.want {
			t.Errorf("RatingStars(%d) = %d, want %d", tt.rating100, got, tt.want)
		}
	}
}

func TestAgeGroup(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{18, "18-25"},
		{25, "18-25"},
		{26, "26-30"},
		{30, "26-30"},
		{33, "31-35"},
		{40, "36-40"},
		{45, "41-45"},
		{46, "46+"},
		{60, "46+"},
	}

	for _, tt := range tests {
		if got := AgeGroup(tt.age); got != tt.want {
			t.Errorf("AgeGroup(%d) = %q, want %q", tt.age, got, tt.want)
		}
	}

	// Every bucket AgeGroup can emit must appear in the ordered range list.
	known := make(map[string]bool)
	for _, g := range AgeGroups() {
		known[g] = true
	}
	for age := 18; age <= 80; age++ {
		if !known[AgeGroup(age)] {
			t.Errorf("AgeGroup(%d) = %q, not in AgeGroups()", age, AgeGroup(age))
		}
	}
}

func TestCupLetter(t *testing.T) {
	if got := CupLetter(5); got != "E" {
		t.Errorf("CupLetter(5) = %q, want E", got)
	}
	if got := CupLetter(0); got != "?" {
		t.Errorf("CupLetter(0) = %q, want ?", got)
	}
	if got := CupLetter(11); got != "?" {
		t.Errorf("CupLetter(11) = %q, want ?", got)
	}
}

func TestTagNameSet(t *testing.T) {
	p := &Performer{Tags: []TagRef{{ID: "1", Name: "blonde"}, {ID: "2", Name: "tattoo"}}}

	set := p.TagNameSet()
	if len(set) != 2 {
		t.Fatalf("TagNameSet() size = %d, want 2", len(set))
	}
	if _, ok := set["blonde"]; !ok {
		t.Error("TagNameSet() missing blonde")
	}

	names := p.TagNames()
	if len(names) != 2 || names[0] != "blonde" || names[1] != "tattoo" {
		t.Errorf("TagNames() = %v, want [blonde tattoo]", names)
	}
}
