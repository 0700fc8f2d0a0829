// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/signup/internal/platform/apperr"
	"github.com/taibuivan/signup/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "alice", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("username", tt.value)

			if tt.hasError {
				err := v.Err()
				require.Error(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, "username", ae.Details[0].Field)
			} else {
				assert.NoError(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"display_name", "Test <test@example.com>", false},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.Err() != nil)
		})
	}
}

/*
TestValidator_Password checks the credential policy.
*/
func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name     string
		password string
		isValid  bool
	}{
		{"compliant", "Secr3tPass", true},
		{"too_short", "Ab1", false},
		{"too_long", "Ab1" + strings.Repeat("x", 62), false},
		{"multibyte_within_limit", "Aa1" + strings.Repeat("é", 34), true},
		{"multibyte_over_bcrypt_limit", "Aa1" + strings.Repeat("é", 61), false},
		{"no_upper", "secr3tpass", false},
		{"no_lower", "SECR3TPASS", false},
		{"no_digit", "SecretPass", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Password("password", tt.password, 8, 64)
			assert.Equal(t, !tt.isValid, v.Err() != nil)
		})
	}
}

/*
TestValidator_Digits checks fixed-length numeric codes.
*/
func TestValidator_Digits(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"six_digits", "123456", true},
		{"five_digits", "12345", false},
		{"seven_digits", "1234567", false},
		{"letters", "12a456", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Digits("code", tt.value, 6)
			assert.Equal(t, !tt.isValid, v.Err() != nil)
		})
	}
}

/*
TestValidator_Username checks the allowed username alphabet.
*/
func TestValidator_Username(t *testing.T) {
	v := &validate.Validator{}
	v.Username("username", "jane.doe_01")
	assert.NoError(t, v.Err())

	v = &validate.Validator{}
	v.Username("username", "jane doe!")
	assert.Error(t, v.Err())
}

/*
TestValidator_Chain verifies that errors from multiple rules accumulate.
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("username", "").
		Email("email", "nope").
		MaxLen("username", "abc", 2).
		Password("password", "short", 8, 64).
		Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 4)
}
