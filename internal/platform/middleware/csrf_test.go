// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketon/bracketon/internal/platform/ctxutil"
	"github.com/bracketon/bracketon/internal/platform/middleware"
	"github.com/bracketon/bracketon/internal/platform/sec"
)

var guardExempt = []string{"/api/v1/auth/login"}

// runGuard sends a request through MutationGuard backed by a real token
// binder and reports the recorded response plus whether the inner handler ran.
func runGuard(t *testing.T, binder *sec.CSRFBinder, request *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reached := false
	inner := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { reached = true })

	recorder := httptest.NewRecorder()
	middleware.MutationGuard(binder, guardExempt)(inner).ServeHTTP(recorder, request)
	return recorder, reached
}

// authenticated stamps an identity onto the request, mimicking Authenticate.
func authenticated(request *http.Request, userID int64) *http.Request {
	identity := &sec.Identity{ID: userID, Username: "guarded"}
	return request.WithContext(ctxutil.WithIdentity(request.Context(), identity))
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Code
}

/*
TestMutationGuard_SafeMethodsPass verifies that read methods skip CSRF
verification entirely, even for authenticated callers without a token.
*/
func TestMutationGuard_SafeMethodsPass(t *testing.T) {
	binder := sec.NewCSRFBinder("guard-secret", 24*time.Hour)

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			request := authenticated(httptest.NewRequest(method, "/api/v1/tournaments", nil), 7)

			_, reached := runGuard(t, binder, request)
			assert.True(t, reached)
		})
	}
}

/*
TestMutationGuard_ExemptPathPasses verifies that pre-authentication mutation
endpoints bypass the guard by exact path.
*/
func TestMutationGuard_ExemptPathPasses(t *testing.T) {
	binder := sec.NewCSRFBinder("guard-secret", 24*time.Hour)

	request := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil), 7)

	_, reached := runGuard(t, binder, request)
	assert.True(t, reached)
}

/*
TestMutationGuard_AnonymousMutationPasses verifies an unauthenticated
mutation is NOT treated as a CSRF failure — it flows through so the auth
layer can return its 401.
*/
func TestMutationGuard_AnonymousMutationPasses(t *testing.T) {
	binder := sec.NewCSRFBinder("guard-secret", 24*time.Hour)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/tournaments", nil)

	_, reached := runGuard(t, binder, request)
	assert.True(t, reached)
}

/*
TestMutationGuard_MissingToken verifies the 403 CSRF_MISSING rejection for an
authenticated mutation with no token anywhere.
*/
func TestMutationGuard_MissingToken(t *testing.T) {
	binder := sec.NewCSRFBinder("guard-secret", 24*time.Hour)

	request := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/tournaments", nil), 7)

	recorder, reached := runGuard(t, binder, request)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "CSRF_MISSING", errorCode(t, recorder))
}

/*
TestMutationGuard_InvalidToken covers the CSRF_INVALID rejections: garbage
tokens, expired tokens, and tokens bound to a different user.
*/
func TestMutationGuard_InvalidToken(t *testing.T) {
	binder := sec.NewCSRFBinder("guard-secret", 24*time.Hour)
	otherUsersToken := binder.Issue(999)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "definitely-not-a-token"},
		{"cross_user", otherUsersToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/tournaments", nil), 7)
			request.Header.Set("X-CSRF-Token", tt.token)

			recorder, reached := runGuard(t, binder, request)
			assert.False(t, reached)
			assert.Equal(t, http.StatusForbidden, recorder.Code)
			assert.Equal(t, "CSRF_INVALID", errorCode(t, recorder))
		})
	}
}

/*
TestMutationGuard_ValidToken verifies the happy path via header and via the
cookie fallback.
*/
func TestMutationGuard_ValidToken(t *testing.T) {
	binder := sec.NewCSRFBinder("guard-secret", 24*time.Hour)
	token := binder.Issue(7)

	t.Run("header", func(t *testing.T) {
		request := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/tournaments", nil), 7)
		request.Header.Set("X-CSRF-Token", token)

		_, reached := runGuard(t, binder, request)
		assert.True(t, reached)
	})

	t.Run("cookie_fallback", func(t *testing.T) {
		request := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/tournaments", nil), 7)
		request.AddCookie(&http.Cookie{Name: "csrf_token", Value: token})

		_, reached := runGuard(t, binder, request)
		assert.True(t, reached)
	})
}

/*
TestMutationGuard_HeaderBeatsCookie verifies precedence: a bad header token
is rejected even when a valid cookie is present.
*/
func TestMutationGuard_HeaderBeatsCookie(t *testing.T) {
	binder := sec.NewCSRFBinder("guard-secret", 24*time.Hour)
	validToken := binder.Issue(7)

	request := authenticated(httptest.NewRequest(http.MethodPost, "/api/v1/tournaments", nil), 7)
	request.Header.Set("X-CSRF-Token", "stale-or-garbage")
	request.AddCookie(&http.Cookie{Name: "csrf_token", Value: validToken})

	recorder, reached := runGuard(t, binder, request)
	assert.False(t, reached)
	assert.Equal(t, "CSRF_INVALID", errorCode(t, recorder))
}
