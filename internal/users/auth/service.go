// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/taibuivan/signup/internal/platform/apperr"
	"github.com/taibuivan/signup/internal/platform/ctxutil"
	"github.com/taibuivan/signup/internal/platform/sec"
	"github.com/taibuivan/signup/internal/platform/validate"
)

const tracerName = "github.com/taibuivan/signup/internal/users/auth"

// Service implements the registration use cases.
//
// # Concurrency
//
// Service holds no mutable state of its own. Races between concurrent
// confirmations are settled by the atomic consume in Redis and, as a last
// resort, by the unique constraints on the account table.
type Service struct {
	accounts AccountStore
	hasher   PasswordHasher
	notifier VerificationNotifier
	cache    *registrationCache
	issuer   TokenIssuer
	codes    CodeGenerator
	tracer   trace.Tracer
	now      func() time.Time
}

// Option customizes a [Service].
type Option func(*Service)

// WithCodeGenerator replaces the random verification code source.
func WithCodeGenerator(generator CodeGenerator) Option {
	return func(service *Service) { service.codes = generator }
}

// WithClock replaces the wall clock used for pending expiry bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// NewService constructs a [Service] with its collaborators.
func NewService(
	accounts AccountStore,
	hasher PasswordHasher,
	notifier VerificationNotifier,
	tokens TokenStore,
	issuer TokenIssuer,
	options ...Option,
) *Service {
	service := &Service{
		accounts: accounts,
		hasher:   hasher,
		notifier: notifier,
		cache:    &registrationCache{store: tokens},
		issuer:   issuer,
		codes:    RandomCodes{},
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// # Registration Flow

// RegisterInput holds the data required to start a registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
BeginRegistration checks uniqueness, emails a verification code and parks
the registration under a fresh pending token.

Description: Nothing is written to the cache unless the email was handed to
the mail server, so a failed dispatch leaves no orphaned pending state.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *PendingResult: the pending token and its lifetime
  - error: validation, ErrDuplicateEmail, ErrDuplicateUsername or infrastructure errors
*/
func (service *Service) BeginRegistration(context context.Context, input RegisterInput) (*PendingResult, error) {
	context, span := service.tracer.Start(context, "auth.BeginRegistration")
	defer span.End()

	logger := ctxutil.Logger(context)

	username := NormalizeUsername(input.Username)
	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		Required(FieldEmail, email).
		Password(FieldPassword, input.Password, PasswordMinLength, PasswordMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 1. Uniqueness ────────────────────────────────────────────────────
	if err := service.ensureAvailable(context, username, email); err != nil {
		return nil, traceFailure(span, err)
	}

	// ── 2. Credential ────────────────────────────────────────────────────
	passwordHash, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, traceFailure(span, fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	// ── 3. Code & Token ──────────────────────────────────────────────────
	code := service.codes.Generate()

	pendingToken, err := sec.GenerateSecureToken(PendingTokenLength)
	if err != nil {
		return nil, traceFailure(span, fmt.Errorf("auth_service_pending_token_failed: %w", err))
	}

	logger.InfoContext(context, "registration_started",
		slog.String("username", username),
		slog.String("email", email),
	)

	// ── 4. Dispatch ──────────────────────────────────────────────────────
	if err := service.notifier.SendVerificationCode(context, email, code); err != nil {
		return nil, traceFailure(span, fmt.Errorf("auth_service_dispatch_code_failed: %w", err))
	}

	logger.InfoContext(context, "verification_dispatched", slog.String("email", email))

	// ── 5. Park ──────────────────────────────────────────────────────────
	pending := &PendingRegistration{
		Username:         username,
		Email:            email,
		PasswordHash:     passwordHash,
		VerificationCode: code,
		ExpiresAt:        service.now().Add(PendingRegistrationTTL),
	}
	if err := service.cache.savePending(context, pendingToken, pending, PendingRegistrationTTL); err != nil {
		return nil, traceFailure(span, err)
	}

	return &PendingResult{Token: pendingToken, ExpiresIn: PendingRegistrationTTL}, nil
}

// ensureAvailable fails with a duplicate error when either identifier is taken.
func (service *Service) ensureAvailable(context context.Context, username, email string) error {
	_, err := service.accounts.FindByUsernameOrEmail(context, "", email)
	switch {
	case err == nil:
		return ErrDuplicateEmail
	case !errors.Is(err, ErrAccountNotFound):
		return fmt.Errorf("auth_service_lookup_email_failed: %w", err)
	}

	_, err = service.accounts.FindByUsernameOrEmail(context, username, "")
	switch {
	case err == nil:
		return ErrDuplicateUsername
	case !errors.Is(err, ErrAccountNotFound):
		return fmt.Errorf("auth_service_lookup_username_failed: %w", err)
	}

	return nil
}

/*
ConfirmRegistration checks the code for a pending token and, on a match,
creates the account and issues its tokens.

Description: A wrong code counts against [MaxVerificationAttempts]; once the
budget is spent the pending registration is discarded. A matching code
consumes the pending entry atomically, so at most one confirmation per token
can reach the account store.

Parameters:
  - context: context.Context
  - code: string (as typed by the user)
  - pendingToken: string

Returns:
  - *TokenPair: access and refresh tokens for the new account
  - error: ErrInvalidOrExpiredToken, ErrInvalidVerificationCode, duplicates or infrastructure errors
*/
func (service *Service) ConfirmRegistration(context context.Context, code, pendingToken string) (*TokenPair, error) {
	context, span := service.tracer.Start(context, "auth.ConfirmRegistration")
	defer span.End()

	logger := ctxutil.Logger(context)

	if pendingToken == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	// ── 1. Lookup ────────────────────────────────────────────────────────
	pending, err := service.cache.loadPending(context, pendingToken)
	if err != nil {
		return nil, traceFailure(span, err)
	}

	// ── 2. Compare ───────────────────────────────────────────────────────
	if subtle.ConstantTimeCompare([]byte(code), []byte(pending.VerificationCode)) != 1 {
		service.rejectCode(context, pendingToken, pending.Email)
		return nil, ErrInvalidVerificationCode
	}

	// ── 3. Consume ───────────────────────────────────────────────────────
	pending, err = service.cache.consumePending(context, pendingToken)
	if err != nil {
		return nil, traceFailure(span, err)
	}
	if err := service.cache.clearAttempts(context, pendingToken); err != nil {
		logger.WarnContext(context, "verification_attempts_clear_failed", slog.Any("error", err))
	}

	// ── 4. Persist ───────────────────────────────────────────────────────
	created, err := service.accounts.Save(context, &Account{
		Username:     pending.Username,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrDuplicateUsername) {
			return nil, err
		}
		service.restorePending(context, pendingToken, pending)
		return nil, traceFailure(span, fmt.Errorf("auth_service_persist_account_failed: %w", err))
	}

	span.SetAttributes(attribute.Int64("account.id", created.ID))

	// ── 5. Issue ─────────────────────────────────────────────────────────
	pair, err := service.issuePair(created)
	if err != nil {
		return nil, traceFailure(span, err)
	}

	// ── 6. Cache Refresh ─────────────────────────────────────────────────
	if err := service.cache.cacheRefresh(context, pair.RefreshToken, created, pair.RefreshExpiresIn); err != nil {
		logger.WarnContext(context, "refresh_token_cache_failed",
			slog.Int64("account_id", created.ID),
			slog.Any("error", err),
		)
	}

	logger.InfoContext(context, "registration_confirmed",
		slog.Int64("account_id", created.ID),
		slog.String("username", created.Username),
	)

	return pair, nil
}

// rejectCode counts a wrong code and discards the pending entry once the attempt budget is spent.
func (service *Service) rejectCode(context context.Context, pendingToken, email string) {
	logger := ctxutil.Logger(context)

	attempts, err := service.cache.recordFailedAttempt(context, pendingToken)
	if err != nil {
		logger.WarnContext(context, "verification_attempt_record_failed", slog.Any("error", err))
		return
	}

	logger.InfoContext(context, "verification_code_mismatch",
		slog.String("email", email),
		slog.Int64("attempts", attempts),
	)

	if attempts < MaxVerificationAttempts {
		return
	}

	if err := service.cache.discard(context, pendingToken); err != nil {
		logger.WarnContext(context, "verification_discard_failed", slog.Any("error", err))
		return
	}
	logger.InfoContext(context, "verification_attempts_exhausted", slog.String("email", email))
}

// restorePending puts a consumed entry back for its remaining lifetime.
func (service *Service) restorePending(context context.Context, pendingToken string, pending *PendingRegistration) {
	remaining := pending.ExpiresAt.Sub(service.now())
	if remaining <= 0 {
		return
	}
	if err := service.cache.savePending(context, pendingToken, pending, remaining); err != nil {
		ctxutil.Logger(context).ErrorContext(context, "pending_registration_restore_failed", slog.Any("error", err))
	}
}

func (service *Service) issuePair(created *Account) (*TokenPair, error) {
	subject := strconv.FormatInt(created.ID, 10)

	accessToken, err := service.issuer.MintAccessToken(subject)
	if err != nil {
		return nil, fmt.Errorf("auth_service_mint_access_failed: %w", err)
	}

	refreshToken, err := service.issuer.MintRefreshToken(subject)
	if err != nil {
		return nil, fmt.Errorf("auth_service_mint_refresh_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresIn:  service.issuer.AccessTTL(),
		RefreshExpiresIn: service.issuer.RefreshTTL(),
	}, nil
}

// # Session Continuation

/*
RefreshAccess exchanges a refresh token for a new access token.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *AccessGrant: a new access token for the same subject
  - error: ErrInvalidRefreshToken or infrastructure errors
*/
func (service *Service) RefreshAccess(context context.Context, refreshToken string) (*AccessGrant, error) {
	context, span := service.tracer.Start(context, "auth.RefreshAccess")
	defer span.End()

	claims, err := service.issuer.VerifyToken(refreshToken, sec.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	cached, err := service.cache.lookupRefresh(context, refreshToken)
	if err != nil {
		return nil, traceFailure(span, err)
	}
	if strconv.FormatInt(cached.ID, 10) != claims.Subject {
		return nil, ErrInvalidRefreshToken
	}

	accessToken, err := service.issuer.MintAccessToken(claims.Subject)
	if err != nil {
		return nil, traceFailure(span, fmt.Errorf("auth_service_mint_access_failed: %w", err))
	}

	return &AccessGrant{AccessToken: accessToken, ExpiresIn: service.issuer.AccessTTL()}, nil
}

/*
CurrentAccount loads the account behind a verified access token.

Returns:
  - error: ErrAccountNotFound or database errors
*/
func (service *Service) CurrentAccount(context context.Context, accountID int64) (*Account, error) {
	context, span := service.tracer.Start(context, "auth.CurrentAccount")
	defer span.End()

	found, err := service.accounts.FindByID(context, accountID)
	if err != nil {
		return nil, traceFailure(span, err)
	}
	return found, nil
}

// traceFailure marks the span failed for infrastructure errors and returns err unchanged.
// Client errors (4xx) are recorded as events only.
func traceFailure(span trace.Span, err error) error {
	if appError := apperr.As(err); appError != nil && appError.HTTPStatus < 500 {
		span.AddEvent("rejected", trace.WithAttributes(attribute.String("code", appError.Code)))
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "registration failure")
	return err
}
