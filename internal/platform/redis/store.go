// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned when a key is absent or its TTL has elapsed.
var ErrKeyNotFound = errors.New("redis: key not found")

// TokenStore is a namespaced, TTL-bound JSON key/value store.
//
// # Concurrency
//
// TokenStore is safe for concurrent use; all state lives in Redis.
type TokenStore struct {
	client    redis.UniversalClient
	namespace string
}

// NewTokenStore returns a store whose keys are all prefixed with namespace.
func NewTokenStore(client redis.UniversalClient, namespace string) *TokenStore {
	return &TokenStore{client: client, namespace: namespace}
}

/*
Save serializes value as JSON and stores it under key for ttl.

Parameters:
  - context: context.Context
  - key: string
  - value: any (JSON-encodable)
  - ttl: time.Duration (must be positive)

Returns:
  - error: encoding or connectivity failures
*/
func (store *TokenStore) Save(context context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("redis_token_store_save_failed: non-positive ttl %s", ttl)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis_token_store_encode_failed: %w", err)
	}

	if err := store.client.Set(context, store.key(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_store_save_failed: %w", err)
	}
	return nil
}

/*
Get decodes the value stored under key into dest.

Returns:
  - error: ErrKeyNotFound when absent or expired
*/
func (store *TokenStore) Get(context context.Context, key string, dest any) error {
	payload, err := store.client.Get(context, store.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("redis_token_store_get_failed: %w", err)
	}
	return decode(payload, dest)
}

/*
Take atomically reads and deletes key (GETDEL).

Only one caller can ever observe a given entry through Take; every other
concurrent caller receives ErrKeyNotFound.
*/
func (store *TokenStore) Take(context context.Context, key string, dest any) error {
	payload, err := store.client.GetDel(context, store.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("redis_token_store_take_failed: %w", err)
	}
	return decode(payload, dest)
}

// Delete removes the given keys. Missing keys are ignored.
func (store *TokenStore) Delete(context context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	namespaced := make([]string, len(keys))
	for i, key := range keys {
		namespaced[i] = store.key(key)
	}

	if err := store.client.Del(context, namespaced...).Err(); err != nil {
		return fmt.Errorf("redis_token_store_delete_failed: %w", err)
	}
	return nil
}

/*
Incr increments the counter at key and returns the new value.

The ttl is applied when the counter is created, so the window is fixed
from the first increment rather than sliding.
*/
func (store *TokenStore) Incr(context context.Context, key string, ttl time.Duration) (int64, error) {
	namespaced := store.key(key)

	count, err := store.client.Incr(context, namespaced).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_token_store_incr_failed: %w", err)
	}

	if count == 1 {
		if err := store.client.Expire(context, namespaced, ttl).Err(); err != nil {
			return 0, fmt.Errorf("redis_token_store_expire_failed: %w", err)
		}
	}
	return count, nil
}

func (store *TokenStore) key(key string) string {
	return store.namespace + key
}

func decode(payload []byte, dest any) error {
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("redis_token_store_decode_failed: %w", err)
	}
	return nil
}
