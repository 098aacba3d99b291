// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package validation

import (
	"strings"
	"testing"
)

// listQuery mirrors the shape of the request structs the API validates:
// numeric bounds on optional query parameters.
type listQuery struct {
	Limit  int    `validate:"min=1,max=1000"`
	Source string `validate:"omitempty,oneof=cache live"`
}

func TestGetValidatorSingleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() = nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() returned different instances")
	}
}

func TestValidateStructValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input listQuery
	}{
		{"mid range", listQuery{Limit: 100}},
		{"lower bound", listQuery{Limit: 1}},
		{"upper bound", listQuery{Limit: 1000}},
		{"optional field set", listQuery{Limit: 10, Source: "cache"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct(%+v) = %v, want nil", tt.input, err)
			}
		})
	}
}

func TestValidateStructInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     listQuery
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"below min", listQuery{Limit: 0}, "Limit", "min", "Limit must be at least 1"},
		{"negative", listQuery{Limit: -5}, "Limit", "min", "Limit must be at least 1"},
		{"above max", listQuery{Limit: 5000}, "Limit", "max", "Limit must be at most 1000"},
		{"bad enum", listQuery{Limit: 10, Source: "disk"}, "Source", "oneof", "Source must be one of: cache live"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatalf("ValidateStruct(%+v) = nil, want error", tt.input)
			}

			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d field errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIErrorSingleField(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&listQuery{Limit: 0})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "Limit must be at least 1" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Limit" {
		t.Errorf("Details[field] = %v, want Limit", apiErr.Details["field"])
	}
	if apiErr.Details["tag"] != "min" {
		t.Errorf("Details[tag] = %v, want min", apiErr.Details["tag"])
	}
}

func TestToAPIErrorMultipleFields(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&listQuery{Limit: 0, Source: "disk"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("got %d field errors, want 2", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	// Combined message names each failing field.
	if !strings.Contains(apiErr.Message, "Limit:") || !strings.Contains(apiErr.Message, "Source:") {
		t.Errorf("Message = %q, want both field names", apiErr.Message)
	}

	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has type %T, want []map[string]interface{}", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("got %d detail entries, want 2", len(fields))
	}
}

func TestValidateStructNilErrorInterface(t *testing.T) {
	t.Parallel()

	// The concrete nil must be usable directly in an if err != nil check
	// at the call site, so a passing struct returns the typed nil.
	if err := ValidateStruct(&listQuery{Limit: 5}); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
}

func TestRequestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&listQuery{Limit: 0, Source: "disk"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := err.Error()
	if !strings.Contains(msg, ";") {
		t.Errorf("Error() = %q, want messages joined with semicolons", msg)
	}
}
