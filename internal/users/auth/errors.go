// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "github.com/taibuivan/signup/internal/platform/apperr"

// # Domain Errors

var (
	// ErrDuplicateEmail means an account already owns the email address.
	ErrDuplicateEmail = apperr.Conflict("Email is already registered").WithCode("DUPLICATE_EMAIL")

	// ErrDuplicateUsername means an account already owns the username.
	ErrDuplicateUsername = apperr.Conflict("Username is already taken").WithCode("DUPLICATE_USERNAME")

	// ErrInvalidOrExpiredToken means the pending token is unknown, expired or already consumed.
	ErrInvalidOrExpiredToken = apperr.Unauthorized("Verification token is invalid or expired").WithCode("INVALID_OR_EXPIRED_TOKEN")

	// ErrInvalidVerificationCode means the submitted code does not match.
	ErrInvalidVerificationCode = apperr.Unauthorized("Verification code is incorrect").WithCode("INVALID_VERIFICATION_CODE")

	// ErrVerificationFailed is the single response the HTTP layer gives for any failed confirmation.
	ErrVerificationFailed = apperr.Unauthorized("Invalid or expired verification").WithCode("INVALID_VERIFICATION")

	// ErrInvalidRefreshToken means the refresh token failed verification or is no longer cached.
	ErrInvalidRefreshToken = apperr.Unauthorized("Refresh token is invalid or expired").WithCode("INVALID_REFRESH_TOKEN")

	// ErrMissingQueryParameter is returned by account lookups given neither username nor email.
	ErrMissingQueryParameter = apperr.ValidationError("Username or email is required").WithCode("MISSING_QUERY_PARAMETER")

	// ErrAccountNotFound is returned when no account matches a lookup.
	ErrAccountNotFound = apperr.NotFound("Account")
)
