// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts body decoding, bearer-token extraction and access to the
authenticated identity, ensuring consistent error handling across handlers.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/taibuivan/signup/internal/platform/apperr"
	"github.com/taibuivan/signup/internal/platform/constants"
	"github.com/taibuivan/signup/internal/platform/ctxutil"
	"github.com/taibuivan/signup/internal/platform/sec"
	"github.com/taibuivan/signup/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to enforce the body size limit)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)

	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
BearerToken extracts the token from an "Authorization: Bearer <token>" header.

Returns:
  - string: the raw token, or "" when the header is absent or malformed
*/
func BearerToken(request *http.Request) string {
	header := request.Header.Get(constants.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

/*
Claims extracts the authenticated claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.Claims(request.Context())
}

/*
RequiredSubject returns the account identifier of the authenticated caller.

Returns:
  - string: the token subject
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredSubject(request *http.Request) (string, error) {
	subject, ok := ctxutil.Subject(request.Context())
	if !ok {
		return "", apperr.Unauthorized("Authentication required")
	}
	return subject, nil
}
