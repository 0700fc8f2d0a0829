// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/signup/internal/platform/sec"
)

// # Account Data Access

// AccountStore defines the durable storage contract for accounts.
type AccountStore interface {

	/*
		Save persists a new account and returns it with its storage-assigned ID.

		Parameters:
		  - context: context.Context
		  - account: *Account (ID is ignored)

		Returns:
		  - *Account: the stored entity
		  - error: ErrDuplicateEmail, ErrDuplicateUsername or persistence failures
	*/
	Save(context context.Context, account *Account) (*Account, error)

	/*
		FindByUsernameOrEmail returns the account matching either identifier.
		An empty argument is ignored.

		Returns:
		  - error: ErrMissingQueryParameter when both are empty, ErrAccountNotFound when absent
	*/
	FindByUsernameOrEmail(context context.Context, username, email string) (*Account, error)

	// FindByID returns the account with the given ID or ErrAccountNotFound.
	FindByID(context context.Context, id int64) (*Account, error)
}

// # Collaborators

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// VerificationNotifier delivers a verification code to an address.
type VerificationNotifier interface {
	SendVerificationCode(context context.Context, address, code string) error
}

// TokenStore is the TTL-bound key/value store for transient auth state.
//
// Get and Take report a missing or expired key with redis.ErrKeyNotFound.
type TokenStore interface {
	Save(context context.Context, key string, value any, ttl time.Duration) error
	Get(context context.Context, key string, dest any) error
	Take(context context.Context, key string, dest any) error
	Delete(context context.Context, keys ...string) error
	Incr(context context.Context, key string, ttl time.Duration) (int64, error)
}

// TokenIssuer mints and verifies signed access and refresh tokens.
type TokenIssuer interface {
	MintAccessToken(subject string) (string, error)
	MintRefreshToken(subject string) (string, error)
	VerifyToken(token string, expected sec.TokenType) (*sec.AuthClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}
