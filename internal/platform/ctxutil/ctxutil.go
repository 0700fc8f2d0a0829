// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/signup/internal/platform/ctxkey"
	"github.com/taibuivan/signup/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context carrying the correlation ID.
func WithRequestID(parent context.Context, id string) context.Context {
	return context.WithValue(parent, ctxkey.KeyRequestID, id)
}

// RequestID returns the correlation ID, or "" when none was attached.
func RequestID(context context.Context) string {
	id, _ := context.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context carrying a request-scoped logger.
func WithLogger(parent context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(parent, ctxkey.KeyLogger, logger)
}

// Logger returns the request-scoped logger, falling back to [slog.Default].
func Logger(context context.Context) *slog.Logger {
	logger, ok := context.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Identity

// WithClaims returns a new context carrying verified access-token claims.
func WithClaims(parent context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(parent, ctxkey.KeyUser, claims)
}

// Claims returns the verified access-token claims, or nil for anonymous requests.
func Claims(context context.Context) *sec.AuthClaims {
	claims, _ := context.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	return claims
}

// Subject returns the account identifier of the authenticated caller.
// The boolean is false for anonymous requests.
func Subject(context context.Context) (string, bool) {
	claims := Claims(context)
	if claims == nil || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
