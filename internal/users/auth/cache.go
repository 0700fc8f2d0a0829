// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/signup/internal/platform/constants"
	"github.com/taibuivan/signup/internal/platform/redis"
	"github.com/taibuivan/signup/internal/platform/sec"
)

// registrationCache gives the generic [TokenStore] its registration key layout.
//
//	auth:pending:<token>        PendingRegistration
//	auth:attempts:<token>       wrong-code counter
//	auth:refresh:<sha256(jwt)>  cachedAccount
type registrationCache struct {
	store TokenStore
}

func pendingKey(token string) string  { return constants.RedisPrefixPending + token }
func attemptsKey(token string) string { return constants.RedisPrefixAttempts + token }
func refreshKey(token string) string  { return constants.RedisPrefixRefresh + sec.HashToken(token) }

// savePending stores a pending registration for ttl.
func (cache *registrationCache) savePending(context context.Context, token string, pending *PendingRegistration, ttl time.Duration) error {
	if err := cache.store.Save(context, pendingKey(token), pending, ttl); err != nil {
		return fmt.Errorf("auth_cache_save_pending_failed: %w", err)
	}
	return nil
}

// loadPending reads a pending registration without consuming it.
func (cache *registrationCache) loadPending(context context.Context, token string) (*PendingRegistration, error) {
	pending := &PendingRegistration{}
	if err := cache.store.Get(context, pendingKey(token), pending); err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("auth_cache_load_pending_failed: %w", err)
	}
	return pending, nil
}

// consumePending atomically removes and returns a pending registration.
// A concurrent consumer that lost the race receives ErrInvalidOrExpiredToken.
func (cache *registrationCache) consumePending(context context.Context, token string) (*PendingRegistration, error) {
	pending := &PendingRegistration{}
	if err := cache.store.Take(context, pendingKey(token), pending); err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("auth_cache_consume_pending_failed: %w", err)
	}
	return pending, nil
}

// recordFailedAttempt bumps the wrong-code counter, which lives as long as the pending entry.
func (cache *registrationCache) recordFailedAttempt(context context.Context, token string) (int64, error) {
	count, err := cache.store.Incr(context, attemptsKey(token), PendingRegistrationTTL)
	if err != nil {
		return 0, fmt.Errorf("auth_cache_record_attempt_failed: %w", err)
	}
	return count, nil
}

// discard removes the pending entry and its counter.
func (cache *registrationCache) discard(context context.Context, token string) error {
	if err := cache.store.Delete(context, pendingKey(token), attemptsKey(token)); err != nil {
		return fmt.Errorf("auth_cache_discard_failed: %w", err)
	}
	return nil
}

// clearAttempts removes only the wrong-code counter.
func (cache *registrationCache) clearAttempts(context context.Context, token string) error {
	if err := cache.store.Delete(context, attemptsKey(token)); err != nil {
		return fmt.Errorf("auth_cache_clear_attempts_failed: %w", err)
	}
	return nil
}

// cacheRefresh records an issued refresh token together with its account.
func (cache *registrationCache) cacheRefresh(context context.Context, refreshToken string, account *Account, ttl time.Duration) error {
	snapshot := cachedAccount{ID: account.ID, Username: account.Username, Email: account.Email}
	if err := cache.store.Save(context, refreshKey(refreshToken), snapshot, ttl); err != nil {
		return fmt.Errorf("auth_cache_save_refresh_failed: %w", err)
	}
	return nil
}

// lookupRefresh returns the account cached for a refresh token.
func (cache *registrationCache) lookupRefresh(context context.Context, refreshToken string) (*cachedAccount, error) {
	snapshot := &cachedAccount{}
	if err := cache.store.Get(context, refreshKey(refreshToken), snapshot); err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("auth_cache_lookup_refresh_failed: %w", err)
	}
	return snapshot, nil
}
