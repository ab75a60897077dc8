// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package middleware

import (
	"net/http"

	"github.com/bracketon/bracketon/internal/platform/apperr"
	"github.com/bracketon/bracketon/internal/platform/constants"
	"github.com/bracketon/bracketon/internal/platform/ctxutil"
	"github.com/bracketon/bracketon/internal/platform/respond"
)

// CSRFVerifier defines the interface needed to verify user-bound CSRF tokens.
type CSRFVerifier interface {
	Verify(token string, expectedUserID int64) bool
}

// MutationGuard gates state-changing requests behind CSRF verification.
//
// # Decision Flow
//
//	Start → [safe method?]        → yes: Proceed
//	      → [exempt path?]        → yes: Proceed
//	      → [identity resolved?]  → no:  Proceed (auth layer rejects later)
//	      → [token present?]      → no:  Reject CSRF_MISSING
//	      → [token valid for id?] → no:  Reject CSRF_INVALID
//	      → Proceed
//
// An unauthenticated mutation is NOT a CSRF failure; it passes through so the
// downstream [RequireAuth] returns the proper 401. Exempt paths cover the
// pre-authentication flows where no session (and hence no token) exists yet.
//
// Must be registered in the router AFTER [Authenticate].
func MutationGuard(verifier CSRFVerifier, exemptPaths []string) func(http.Handler) http.Handler {
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		exempt[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Safe methods always pass ───────────────────────────────────
			if !isMutation(request.Method) {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Pre-authentication flows bypass the guard ──────────────────
			if _, isExempt := exempt[request.URL.Path]; isExempt {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Anonymous mutations defer to the auth check ────────────────
			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Token presence (header preferred, cookie fallback) ─────────
			token := csrfTokenFromRequest(request)
			if token == "" {
				respond.Error(writer, request, apperr.CSRFMissing())
				return
			}

			// ── 5. User-bound verification ────────────────────────────────────
			if !verifier.Verify(token, identity.ID) {
				respond.Error(writer, request, apperr.CSRFInvalid())
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// isMutation reports whether the method changes server state.
func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// csrfTokenFromRequest extracts the CSRF token, header first.
func csrfTokenFromRequest(request *http.Request) string {
	if token := request.Header.Get(constants.HeaderCSRFToken); token != "" {
		return token
	}

	if cookie, err := request.Cookie(constants.CSRFCookieName); err == nil {
		return cookie.Value
	}

	return ""
}
