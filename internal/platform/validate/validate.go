// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// Services build one Validator per operation. Only the first failure of a
// field is kept, so later rules may assume earlier ones passed: MaxLen after
// Required never reports on an empty value. Storage never validates; it relies
// on the constraints declared in the migrations.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

const msgRequired = "This field is required"

var (
	// slugRegex matches slug format: ASCII letters, digits, hyphens, underscores.
	slugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	// usernameRegex matches word characters plus . @ + -
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors. It is not safe for
// concurrent use; create one per operation.
type Validator struct {
	errs   []apperr.FieldError
	failed map[string]bool
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) != "", msgRequired)
}

// Present fails if a required non-string field was omitted from the payload.
//
//	v.Present("score", input.Score != nil)
func (v *Validator) Present(field string, present bool) *Validator {
	return v.check(field, present, msgRequired)
}

// MaxLen fails if the value has more than max characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) <= max,
		fmt.Sprintf("Ensure this field has no more than %d characters", max))
}

// Range fails if the value is outside [min, max].
func (v *Validator) Range(field string, value, min, max int) *Validator {
	return v.check(field, value >= min && value <= max,
		fmt.Sprintf("Must be between %d and %d", min, max))
}

// Email fails if the value is not a bare RFC 5322 address. Display-name
// forms such as "Bob <bob@x.com>" are rejected.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.check(field, err == nil && address.Address == value, "Enter a valid email address")
}

// Slug fails unless the value is ASCII letters, digits, hyphens and underscores.
func (v *Validator) Slug(field, value string) *Validator {
	return v.check(field, slugRegex.MatchString(value),
		"Enter a valid slug consisting of letters, numbers, underscores or hyphens")
}

// Username fails if the value holds anything other than letters, digits
// and the characters . @ + - _
func (v *Validator) Username(field, value string) *Validator {
	return v.check(field, usernameRegex.MatchString(value),
		"Only letters, digits and @/./+/-/_ are allowed")
}

// NotReserved fails if the value equals any reserved word, ignoring case.
func (v *Validator) NotReserved(field, value string, reserved ...string) *Validator {
	for _, word := range reserved {
		if strings.EqualFold(value, word) {
			return v.check(field, false, fmt.Sprintf("The value %q is reserved", value))
		}
	}
	return v
}

// OneOf fails if the value is not in the allowed set.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, candidate := range allowed {
		if value == candidate {
			return v
		}
	}
	return v.check(field, false, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
}

// Add records a failure decided by the caller, such as an unknown slug.
// Unlike the built-in rules it always records, so one field may collect
// several of these.
func (v *Validator) Add(field, message string) *Validator {
	v.record(field, message)
	return v
}

// Err returns a VALIDATION_ERROR listing every failure, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) check(field string, ok bool, message string) *Validator {
	if !ok && !v.failed[field] {
		v.record(field, message)
	}
	return v
}

func (v *Validator) record(field, message string) {
	if v.failed == nil {
		v.failed = make(map[string]bool)
	}
	v.failed[field] = true
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
