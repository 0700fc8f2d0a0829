// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements two-stage account registration.

A client first submits a username, email and password. The service checks
uniqueness, hashes the password, emails a six-digit code and parks the
request as a [PendingRegistration] behind a random pending token. The client
then confirms with the code and the pending token; only then is the
[Account] persisted and a [TokenPair] issued.

# Architecture

  - Service: orchestrates the registration use cases.
  - Stores: Postgres for accounts, Redis for pending state and refresh tokens.
  - Handler: the chi HTTP boundary under /api/v1/auth.
*/
package auth

import "time"

// # Domain Entities

// Account is a registered, verified user.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PendingRegistration is an unconfirmed registration awaiting its code.
//
// It is written once and never mutated; confirmation consumes it.
type PendingRegistration struct {
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"password_hash"`
	VerificationCode string    `json:"verification_code"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// cachedAccount is the account snapshot stored next to a refresh token.
// It keeps the password hash out of the cache.
type cachedAccount struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// # Results

// PendingResult is returned when a registration has been started.
type PendingResult struct {
	Token     string
	ExpiresIn time.Duration
}

// TokenPair is the credential set issued on successful confirmation.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

// AccessGrant is a renewed access token.
type AccessGrant struct {
	AccessToken string
	ExpiresIn   time.Duration
}

// # Field Identifiers

// Field names for validation and response payloads.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldCode         = "code"
	FieldPendingToken = "pending_token"
	FieldAccessToken  = "access_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
)
