// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Handlers validate request shape; services validate business preconditions.
// Both build a fresh Validator and finish the chain with [Validator.Err].
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/signup/internal/platform/apperr"
)

var (
	// usernameRegex allows letters, digits, dots, underscores and hyphens.
	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}._-]+$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Email fails if the value is not a bare RFC 5322 address.
// Display-name forms such as "Jane <jane@example.com>" are rejected.
func (v *Validator) Email(field, value string) *Validator {
	parsed, err := mail.ParseAddress(value)
	if err != nil || parsed.Address != value {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// Username fails if the value contains characters outside letters, digits, '.', '_' and '-'.
func (v *Validator) Username(field, value string) *Validator {
	if value != "" && !usernameRegex.MatchString(value) {
		v.add(field, "May only contain letters, digits, '.', '_' and '-'")
	}
	return v
}

// PasswordMaxBytes is the longest input bcrypt accepts.
const PasswordMaxBytes = 72

// Password enforces the credential policy.
//
// # Policy
//
// Between min and max characters and at most [PasswordMaxBytes] bytes, with
// at least one upper-case letter, one lower-case letter and one digit.
func (v *Validator) Password(field, value string, min, max int) *Validator {
	length := utf8.RuneCountInString(value)
	if length < min || length > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d characters", min, max))
		return v
	}
	if len(value) > PasswordMaxBytes {
		v.add(field, fmt.Sprintf("Must be at most %d bytes", PasswordMaxBytes))
		return v
	}

	var upper, lower, digit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		v.add(field, "Must contain an upper-case letter, a lower-case letter and a digit")
	}
	return v
}

// Digits fails unless the value consists of exactly n ASCII digits.
func (v *Validator) Digits(field, value string, n int) *Validator {
	if len(value) != n {
		v.add(field, fmt.Sprintf("Must be exactly %d digits", n))
		return v
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			v.add(field, fmt.Sprintf("Must be exactly %d digits", n))
			return v
		}
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method. Call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
