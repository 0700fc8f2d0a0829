// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/signup/internal/platform/apperr"
	"github.com/taibuivan/signup/internal/platform/constants"
	"github.com/taibuivan/signup/internal/platform/middleware"
	requestutil "github.com/taibuivan/signup/internal/platform/request"
	"github.com/taibuivan/signup/internal/platform/respond"
	"github.com/taibuivan/signup/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the registration HTTP endpoints.
//
// # Scope
//
// Registration and confirmation are public. The pending token travels in the
// Authorization header of both exchanges, so access-token authentication is
// mounted only on the /me group.
type Handler struct {
	authService  *Service
	verifier     middleware.TokenVerifier
	cookieSecure bool
}

// NewHandler constructs a new [Handler].
//
// # Parameters
//   - service: the registration use cases.
//   - verifier: checks access tokens on protected routes.
//   - cookieSecure: whether the refresh cookie carries the Secure attribute.
func NewHandler(service *Service, verifier middleware.TokenVerifier, cookieSecure bool) *Handler {
	return &Handler{authService: service, verifier: verifier, cookieSecure: cookieSecure}
}

// Routes returns a [chi.Router] configured with the registration routes.
//
// # Endpoints
//   - POST /register        : Starts a registration and emails a code.
//   - POST /register/verify : Confirms the code and issues tokens.
//   - POST /refresh         : Renews the access token from the refresh cookie.
//   - GET  /me              : Returns the authenticated account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/register/verify", handler.verify)
	router.Post("/refresh", handler.refresh)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(handler.verifier))
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request & Response Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

type pendingResponse struct {
	PendingToken string `json:"pending_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type accessResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

/*
Register starts a two-stage registration.

POST /api/v1/auth/register

Description: Validates input, checks identity conflicts, emails a six-digit
code and returns the pending token in both the body and the Authorization
header.

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 202: pendingResponse
  - 400: VALIDATION_ERROR
  - 409: DUPLICATE_EMAIL or DUPLICATE_USERNAME
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	username := NormalizeUsername(input.Username)
	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MinLen(FieldUsername, username, UsernameMinLength).
		MaxLen(FieldUsername, username, UsernameMaxLength).
		Username(FieldUsername, username).
		Required(FieldEmail, email).
		MaxLen(FieldEmail, email, EmailMaxLength).
		Email(FieldEmail, email).
		Password(FieldPassword, input.Password, PasswordMinLength, PasswordMaxLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.BeginRegistration(request.Context(), RegisterInput{
		Username: username,
		Email:    email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderAuthorization, constants.BearerScheme+" "+result.Token)
	respond.Accepted(writer, pendingResponse{
		PendingToken: result.Token,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    seconds(result.ExpiresIn),
	})
}

/*
Verify confirms a pending registration.

POST /api/v1/auth/register/verify

Description: Reads the pending token from the Authorization header and the
code from the body. Every confirmation failure gets the same 401 so callers
cannot probe which part was wrong.

Request:
  - Header: Authorization: Bearer <pending token>
  - Body: verifyRequest (Code)

Response:
  - 200: accessResponse, refresh_token cookie, Authorization header
  - 400: VALIDATION_ERROR
  - 401: INVALID_VERIFICATION
  - 409: DUPLICATE_EMAIL or DUPLICATE_USERNAME
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	var input verifyRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCode, input.Code).
		Digits(FieldCode, input.Code, VerificationCodeLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pendingToken := requestutil.BearerToken(request)
	if pendingToken == "" {
		respond.Error(writer, request, ErrVerificationFailed)
		return
	}

	pair, err := handler.authService.ConfirmRegistration(request.Context(), input.Code, pendingToken)
	if err != nil {
		if errors.Is(err, ErrInvalidOrExpiredToken) || errors.Is(err, ErrInvalidVerificationCode) {
			err = ErrVerificationFailed
		}
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, pair.RefreshToken, pair.RefreshExpiresIn)
	writer.Header().Set(constants.HeaderAuthorization, constants.BearerScheme+" "+pair.AccessToken)

	respond.OK(writer, accessResponse{
		AccessToken: pair.AccessToken,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   seconds(pair.AccessExpiresIn),
	})
}

/*
Refresh issues a new access token.

POST /api/v1/auth/refresh

Request:
  - Cookie: refresh_token

Response:
  - 200: accessResponse
  - 401: INVALID_REFRESH_TOKEN
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, ErrInvalidRefreshToken)
		return
	}

	grant, err := handler.authService.RefreshAccess(request.Context(), cookie.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderAuthorization, constants.BearerScheme+" "+grant.AccessToken)
	respond.OK(writer, accessResponse{
		AccessToken: grant.AccessToken,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   seconds(grant.ExpiresIn),
	})
}

/*
Me returns the authenticated account.

GET /api/v1/auth/me

Response:
  - 200: Account
  - 401: UNAUTHORIZED
  - 404: NOT_FOUND
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	subject, err := requestutil.RequiredSubject(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		respond.Error(writer, request, apperr.Unauthorized("Invalid token subject"))
		return
	}

	found, err := handler.authService.CurrentAccount(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// # Helpers

func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, token string, lifetime time.Duration) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   int(lifetime.Seconds()),
		Secure:   handler.cookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func seconds(duration time.Duration) int64 {
	return int64(duration / time.Second)
}
