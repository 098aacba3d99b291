// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

// Package validation validates API request structs with
// go-playground/validator v10 and translates field errors into the API's
// error envelope format.
//
// The validator instance is a thread-safe singleton so struct metadata is
// parsed once and cached. Handlers declare constraints as struct tags and
// call ValidateStruct:
//
//	type RecommendationsRequest struct {
//	    Limit int `validate:"min=1,max=1000"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // respond 400 with apiErr.Code, apiErr.Message, apiErr.Details
//	}
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// validationErrorCode is the envelope code for rejected requests.
const validationErrorCode = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidationError is one field constraint failure.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the struct field that failed.
func (e *ValidationError) Field() string { return e.field }

// Tag returns the constraint tag that failed.
func (e *ValidationError) Tag() string { return e.tag }

// Param returns the tag parameter ("1000" for max=1000).
func (e *ValidationError) Param() string { return e.param }

// Value returns the rejected value.
func (e *ValidationError) Value() interface{} { return e.value }

// Error returns the human-readable message.
func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every constraint failure from one
// ValidateStruct call.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the individual field failures.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// Error implements the error interface with all messages joined.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i, e := range ve.errors {
		messages[i] = e.message
	}
	return strings.Join(messages, "; ")
}

// APIError carries the envelope fields for a validation failure. It
// mirrors the api package's error shape; validation cannot import api
// without a cycle.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError renders the failures for the error envelope. A single
// failure keeps its field, tag, and rejected value in Details; several
// failures become a fields list with per-field messages.
func (ve *RequestValidationError) ToAPIError() *APIError {
	switch len(ve.errors) {
	case 0:
		return &APIError{Code: validationErrorCode, Message: "Validation failed"}
	case 1:
		e := ve.errors[0]
		return &APIError{
			Code:    validationErrorCode,
			Message: e.message,
			Details: map[string]interface{}{
				"field": e.field,
				"tag":   e.tag,
				"value": e.value,
			},
		}
	}

	fields := make([]map[string]interface{}, len(ve.errors))
	messages := make([]string, len(ve.errors))
	for i, e := range ve.errors {
		fields[i] = map[string]interface{}{
			"field":   e.field,
			"tag":     e.tag,
			"message": e.message,
		}
		messages[i] = e.field + ": " + e.message
	}

	return &APIError{
		Code:    validationErrorCode,
		Message: strings.Join(messages, "; "),
		Details: map[string]interface{}{"fields": fields},
	}
}

// ValidateStruct checks s against its validate tags. It returns nil when
// every constraint holds.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError (non-struct input) carries no field
		// detail; surface it as a single opaque failure.
		return &RequestValidationError{errors: []ValidationError{{
			field:   "unknown",
			tag:     "unknown",
			message: err.Error(),
		}}}
	}

	out := make([]ValidationError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = ValidationError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: messageFor(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

// messageFor renders a field error as the message the API returns. Only
// tags this repo's request structs use get bespoke wording; anything else
// falls back to a generic phrase.
func messageFor(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return field + " must be one of: " + param
	case "min":
		if fe.Kind() == reflect.String {
			return field + " must be at least " + param + " characters"
		}
		return field + " must be at least " + param
	case "max":
		if fe.Kind() == reflect.String {
			return field + " must be at most " + param + " characters"
		}
		return field + " must be at most " + param
	case "gte":
		return field + " must be greater than or equal to " + param
	case "lte":
		return field + " must be less than or equal to " + param
	case "gt":
		return field + " must be greater than " + param
	case "lt":
		return field + " must be less than " + param
	default:
		return field + " failed " + fe.Tag() + " validation"
	}
}
