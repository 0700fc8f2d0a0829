// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Registration Constraints

const (
	// PendingRegistrationTTL is how long a pending registration and its code stay valid.
	PendingRegistrationTTL = 600 * time.Second

	// VerificationCodeLength is the number of digits in an emailed code.
	VerificationCodeLength = 6

	// MaxVerificationAttempts is the number of wrong codes tolerated before the
	// pending registration is discarded.
	MaxVerificationAttempts = 5

	// PendingTokenLength is the byte length of the random pending-registration token.
	PendingTokenLength = 32
)

// # Credential Policy

const (
	UsernameMinLength = 3
	UsernameMaxLength = 64
	EmailMaxLength    = 254
	PasswordMinLength = 8
	PasswordMaxLength = 64
)

// # Wire Values

const (
	// TokenTypeBearer is the token_type reported to clients.
	TokenTypeBearer = "Bearer"
)
