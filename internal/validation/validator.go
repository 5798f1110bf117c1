// Scoreboard - Player and Game Score Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scoreboard

// Package validation wraps go-playground/validator v10 behind a thread-safe
// singleton. It checks two things: schema declarations (struct tags on the
// schema types) and per-value rules attached to row fields.
//
//	if err := validation.ValidateVar(value, "score", "gte=0"); err != nil {
//	    // err.Tag() == "gte", err.Error() == "score must be greater than or equal to 0"
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError represents a single field validation error.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   any
	message string
}

// Field returns the field name that failed validation.
func (e *ValidationError) Field() string {
	return e.field
}

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string {
	return e.tag
}

// Param returns the parameter for the validation tag (e.g., "100" for "max=100").
func (e *ValidationError) Param() string {
	return e.param
}

// Value returns the actual value that failed validation.
func (e *ValidationError) Value() any {
	return e.value
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	return e.message
}

// StructValidationError collects every field error found in one struct.
type StructValidationError struct {
	errors []ValidationError
}

// Errors returns the slice of validation errors.
func (ve *StructValidationError) Errors() []ValidationError {
	return ve.errors
}

// Error joins the individual messages with "; ".
func (ve *StructValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(ve.errors))
	for _, err := range ve.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidTag reports whether tag parses as a validator rule. Unknown tags make
// the underlying library panic, so the check recovers.
func ValidTag(tag string) (ok bool) {
	if strings.TrimSpace(tag) == "" {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	// Only parsing matters here; a failing rule still means the tag is valid.
	_ = GetValidator().Var("", tag)
	return true
}

// ValidateStruct validates a struct using its `validate` tags.
// Returns nil if validation passes.
func ValidateStruct(s any) *StructValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &StructValidationError{
			errors: []ValidationError{{field: "unknown", tag: "unknown", message: err.Error()}},
		}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = fromFieldError(fieldErr, fieldErr.Namespace())
	}
	return &StructValidationError{errors: fieldErrors}
}

// ValidateVar checks a single value against tag and names it field in the
// resulting message. Returns nil if the value satisfies the rule.
func ValidateVar(value any, field, tag string) *ValidationError {
	err := GetValidator().Var(value, tag)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return &ValidationError{field: field, tag: tag, value: value, message: err.Error()}
	}
	ve := fromFieldError(validationErrs[0], field)
	return &ve
}

func fromFieldError(fe validator.FieldError, field string) ValidationError {
	return ValidationError{
		field:   field,
		tag:     fe.Tag(),
		param:   fe.Param(),
		value:   fe.Value(),
		message: translateError(fe, field),
	}
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required":   "%s is required",
	"email":      "%s must be a valid email address",
	"datetime":   "%s must be a valid date/time in RFC3339 format",
	"alphanum":   "%s must contain only letters and digits",
	"printascii": "%s must contain only printable ASCII characters",
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
	"ne":    "%s must not equal %s",
}

func translateError(fe validator.FieldError, field string) string {
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}
	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max validation with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind().String() == "string"

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
