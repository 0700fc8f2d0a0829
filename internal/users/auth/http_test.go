// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/signup/internal/platform/redis"
	"github.com/taibuivan/signup/internal/platform/sec"
	"github.com/taibuivan/signup/internal/platform/sec/sectest"
	"github.com/taibuivan/signup/internal/users/auth"
)

type httpFixture struct {
	router   http.Handler
	accounts *memoryAccounts
	notifier *recordingNotifier
	tokens   *sec.TokenService
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	fixture := &httpFixture{
		accounts: &memoryAccounts{},
		notifier: newRecordingNotifier(),
		tokens:   sectest.TokenService(t),
	}

	service := auth.NewService(
		fixture.accounts,
		sec.NewHasher(bcrypt.MinCost),
		fixture.notifier,
		redis.NewTokenStore(client, ""),
		fixture.tokens,
	)
	fixture.router = auth.NewHandler(service, fixture.tokens, true).Routes()
	return fixture
}

func (fixture *httpFixture) do(method, path, body string, headers map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for name, value := range headers {
		request.Header.Set(name, value)
	}
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	fixture.router.ServeHTTP(recorder, request)
	return recorder
}

type envelope struct {
	Data struct {
		PendingToken string `json:"pending_token"`
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int64  `json:"expires_in"`
		Username     string `json:"username"`
		Email        string `json:"email"`
	} `json:"data"`
	Code string `json:"code"`
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

const aliceBody = `{"username":"alice","email":"a@x.com","password":"Secret12"}`

/*
TestHandler_RegisterVerifyMe runs the full HTTP flow.
*/
func TestHandler_RegisterVerifyMe(t *testing.T) {
	fixture := newHTTPFixture(t)

	// 1. Register
	recorder := fixture.do(http.MethodPost, "/register", aliceBody, nil)
	require.Equal(t, http.StatusAccepted, recorder.Code, recorder.Body.String())

	pending := decode(t, recorder)
	assert.NotEmpty(t, pending.Data.PendingToken)
	assert.Equal(t, "Bearer", pending.Data.TokenType)
	assert.Equal(t, int64(600), pending.Data.ExpiresIn)
	assert.Equal(t, "Bearer "+pending.Data.PendingToken, recorder.Header().Get("Authorization"))

	// 2. Verify
	code := fixture.notifier.codeFor("a@x.com")
	recorder = fixture.do(http.MethodPost, "/register/verify", `{"code":"`+code+`"}`,
		map[string]string{"Authorization": "Bearer " + pending.Data.PendingToken})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	issued := decode(t, recorder)
	assert.Equal(t, "Bearer "+issued.Data.AccessToken, recorder.Header().Get("Authorization"))
	assert.Equal(t, int64(15*60), issued.Data.ExpiresIn)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	refresh := cookies[0]
	assert.Equal(t, "refresh_token", refresh.Name)
	assert.True(t, refresh.HttpOnly)
	assert.True(t, refresh.Secure)
	assert.Equal(t, http.SameSiteLaxMode, refresh.SameSite)
	assert.Equal(t, 30*24*60*60, refresh.MaxAge)
	assert.Equal(t, "/api/v1/auth", refresh.Path)

	// 3. Me
	recorder = fixture.do(http.MethodGet, "/me", "", map[string]string{"Authorization": "Bearer " + issued.Data.AccessToken})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	me := decode(t, recorder)
	assert.Equal(t, "alice", me.Data.Username)
	assert.NotContains(t, recorder.Body.String(), "password")

	// 4. Refresh
	recorder = fixture.do(http.MethodPost, "/refresh", "", nil, &http.Cookie{Name: refresh.Name, Value: refresh.Value})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.NotEmpty(t, decode(t, recorder).Data.AccessToken)
}

/*
TestHandler_RegisterRejections covers validation and duplicate responses.
*/
func TestHandler_RegisterRejections(t *testing.T) {
	fixture := newHTTPFixture(t)
	fixture.accounts.seed("taken", "taken@x.com")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"invalid_json", `{`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown_field", `{"username":"a","admin":true}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad_email", `{"username":"bob","email":"nope","password":"Secret12"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"weak_password", `{"username":"bob","email":"b@x.com","password":"secret"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"password_over_hash_limit", `{"username":"bob","email":"b@x.com","password":"Aa1` + strings.Repeat("é", 61) + `"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"short_username", `{"username":"bo","email":"b@x.com","password":"Secret12"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"duplicate_email", `{"username":"bob","email":"taken@x.com","password":"Secret12"}`, http.StatusConflict, "DUPLICATE_EMAIL"},
		{"duplicate_username", `{"username":"taken","email":"b@x.com","password":"Secret12"}`, http.StatusConflict, "DUPLICATE_USERNAME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := fixture.do(http.MethodPost, "/register", tt.body, nil)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantCode, decode(t, recorder).Code)
		})
	}

	assert.Zero(t, fixture.notifier.sentCount())
}

/*
TestHandler_VerifyFailuresAreGeneric returns one 401 code for every confirmation failure.
*/
func TestHandler_VerifyFailuresAreGeneric(t *testing.T) {
	fixture := newHTTPFixture(t)

	recorder := fixture.do(http.MethodPost, "/register", aliceBody, nil)
	require.Equal(t, http.StatusAccepted, recorder.Code)
	token := decode(t, recorder).Data.PendingToken
	code := fixture.notifier.codeFor("a@x.com")

	wrong := "111111"
	if code == wrong {
		wrong = "222222"
	}

	tests := []struct {
		name   string
		code   string
		header string
	}{
		{"wrong_code", wrong, "Bearer " + token},
		{"unknown_token", code, "Bearer not-a-real-token"},
		{"missing_header", code, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			recorder := fixture.do(http.MethodPost, "/register/verify", `{"code":"`+tt.code+`"}`, headers)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Equal(t, "INVALID_VERIFICATION", decode(t, recorder).Code)
		})
	}

	recorder = fixture.do(http.MethodPost, "/register/verify", `{"code":"12a"}`, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Zero(t, fixture.accounts.count())
}

/*
TestHandler_ProtectedRoutes rejects missing or wrong credentials.
*/
func TestHandler_ProtectedRoutes(t *testing.T) {
	fixture := newHTTPFixture(t)

	refresh, err := fixture.tokens.MintRefreshToken("1")
	require.NoError(t, err)

	recorder := fixture.do(http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = fixture.do(http.MethodGet, "/me", "", map[string]string{"Authorization": "Bearer " + refresh})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = fixture.do(http.MethodPost, "/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", decode(t, recorder).Code)

	// A well-signed refresh token that was never cached is still refused.
	recorder = fixture.do(http.MethodPost, "/refresh", "", nil, &http.Cookie{Name: "refresh_token", Value: refresh})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
