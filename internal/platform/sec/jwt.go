// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing, random
// tokens) from the domain logic. It is injected into the application layer
// through narrow interfaces declared by the consumers.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/signup/pkg/uuid"
)

// # Token Types

// TokenType distinguishes access tokens from refresh tokens. It travels in the "type" claim.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// # Errors

var (
	// ErrMissingSubject is returned when minting a token without a subject.
	ErrMissingSubject = errors.New("sec: token subject is required")

	// ErrInvalidToken covers bad signatures, malformed input and unexpected algorithms.
	ErrInvalidToken = errors.New("sec: invalid token")

	// ErrTokenExpired is returned when the exp claim is not in the future.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrWrongTokenType is returned when a valid token of the other type is presented.
	ErrWrongTokenType = errors.New("sec: wrong token type")
)

// AuthClaims is the payload of both access and refresh tokens.
//
// The subject is the account identifier; [TokenType] tells the two kinds apart
// so a refresh token can never be replayed as an access token.
type AuthClaims struct {
	jwt.RegisteredClaims

	Type TokenType `json:"type"`
}

// TokenOptions configures a [TokenService].
type TokenOptions struct {
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService mints and verifies RS256 JWTs.
//
// # Concurrency
//
// The key pair is immutable after construction, so a TokenService is safe
// for concurrent use.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	options    TokenOptions
	now        func() time.Time
}

// NewTokenService parses PEM-encoded RSA keys and returns a ready service.
func NewTokenService(privateKeyPEM, publicKeyPEM []byte, options TokenOptions) (*TokenService, error) {
	if options.AccessTTL <= 0 || options.RefreshTTL <= 0 {
		return nil, fmt.Errorf("sec: token lifetimes must be positive")
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		options:    options,
		now:        time.Now,
	}, nil
}

/*
LoadKeyPEM resolves a key from either a filesystem path or an inline value.

Inline values may carry literal "\n" sequences, as is common when a PEM
block is squeezed into a single environment variable. The path wins when
both are set.
*/
func LoadKeyPEM(path, inline string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("sec: failed to read key from %s: %w", path, err)
		}
		return data, nil
	}

	if inline == "" {
		return nil, fmt.Errorf("sec: no key configured")
	}
	return []byte(strings.ReplaceAll(inline, `\n`, "\n")), nil
}

// WithClock returns a copy of the service that reads time from now.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *service
	clone.now = now
	return &clone
}

// AccessTTL is the lifetime of minted access tokens.
func (service *TokenService) AccessTTL() time.Duration { return service.options.AccessTTL }

// RefreshTTL is the lifetime of minted refresh tokens.
func (service *TokenService) RefreshTTL() time.Duration { return service.options.RefreshTTL }

// MintAccessToken issues a short-lived access token for subject.
func (service *TokenService) MintAccessToken(subject string) (string, error) {
	return service.mint(subject, TokenTypeAccess, service.options.AccessTTL)
}

// MintRefreshToken issues a long-lived refresh token for subject.
func (service *TokenService) MintRefreshToken(subject string) (string, error) {
	return service.mint(subject, TokenTypeRefresh, service.options.RefreshTTL)
}

func (service *TokenService) mint(subject string, tokenType TokenType, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrMissingSubject
	}

	issuedAt := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   subject,
			Issuer:    service.options.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Type: tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec_sign_token_failed: %w", err)
	}
	return signed, nil
}

/*
VerifyToken checks the signature, expiry, issuer and type of a JWT string.

Parameters:
  - token: string (compact JWS)
  - expected: TokenType

Returns:
  - *AuthClaims: the verified payload
  - error: ErrTokenExpired, ErrWrongTokenType or ErrInvalidToken
*/
func (service *TokenService) VerifyToken(token string, expected TokenType) (*AuthClaims, error) {
	claims := &AuthClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return service.publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(service.options.Issuer),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	if claims.Type != expected {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}
