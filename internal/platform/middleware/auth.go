// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bracketon/bracketon/internal/platform/apperr"
	"github.com/bracketon/bracketon/internal/platform/constants"
	"github.com/bracketon/bracketon/internal/platform/ctxutil"
	"github.com/bracketon/bracketon/internal/platform/respond"
	"github.com/bracketon/bracketon/internal/platform/sec"
)

// SessionVerifier defines the interface needed to verify session tokens.
//
// # Why an interface?
//
// Defining SessionVerifier here decouples the middleware from the concrete
// [sec.SessionCodec], allowing us to easily inject stubs during unit testing.
type SessionVerifier interface {
	Verify(token string) *sec.Identity
}

// Authenticate resolves the caller's identity from the request.
//
// # Carrier Preference
//
//  1. The httpOnly 'auth_token' cookie (primary path for browser clients).
//  2. 'Authorization: Bearer <token>' header (legacy compatibility path).
//
// # Pure Resolution
//
// This middleware never rejects a request. A missing, malformed, expired, or
// tampered token all leave the request anonymous — the distinction is
// deliberately not exposed, and enforcement happens downstream in
// [RequireAuth]. That ordering lets pre-authentication flows (login, OTP)
// share the same chain.
func Authenticate(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Extract the token ──────────────────────────────────────────
			token := sessionTokenFromRequest(request)
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Verify (nil on any failure) ────────────────────────────────
			identity := verifier.Verify(token)
			if identity == nil {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// sessionTokenFromRequest extracts the raw session token, cookie first.
func sessionTokenFromRequest(request *http.Request) string {
	if cookie, err := request.Cookie(constants.AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// PrivilegeSource re-reads an account's privilege flag from storage.
type PrivilegeSource interface {
	IsPrivileged(ctx context.Context, userID int64) (bool, error)
}

// RequirePrivileged blocks requests from non-privileged accounts.
//
// # Freshness
//
// The IsPrivileged flag embedded in the session token can be up to 7 days
// stale, so this check re-derives privilege from storage on every call.
// A demoted admin loses access immediately, not at token expiry.
func RequirePrivileged(source PrivilegeSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Fresh Authorization Check ──────────────────────────────────
			privileged, err := source.IsPrivileged(request.Context(), identity.ID)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if !privileged {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
