// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/signup/internal/platform/apperr"
	"github.com/taibuivan/signup/internal/platform/constants"
	"github.com/taibuivan/signup/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/signup/internal/platform/request"
	"github.com/taibuivan/signup/internal/platform/respond"
	"github.com/taibuivan/signup/internal/platform/sec"
)

// TokenVerifier verifies a JWT of the expected type.
type TokenVerifier interface {
	VerifyToken(token string, expected sec.TokenType) (*sec.AuthClaims, error)
}

// Authenticate verifies an access token from the Authorization header.
//
// # Scope
//
// Mount it only on route groups that accept access tokens. The registration
// endpoints carry a pending token in the same header, which is not a JWT.
//
// # Flow
//  1. No Authorization header: the request proceeds as anonymous.
//  2. Malformed header or failed verification: 401.
//  3. Otherwise [*sec.AuthClaims] is injected into the request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Header.Get(constants.HeaderAuthorization) == "" {
				next.ServeHTTP(writer, request)
				return
			}

			token := requestutil.BearerToken(request)
			if token == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(token, sec.TokenTypeAccess)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.Claims(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
