// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/bracketon/bracketon/internal/platform/ctxutil"
	"github.com/bracketon/bracketon/internal/platform/ratelimit"
	"github.com/bracketon/bracketon/internal/platform/respond"
)

// RateLimit rejects requests that exceed the given rule's fixed-window budget.
//
// The identifier is the client IP derived per [ratelimit.ClientIdentifier].
// Rejections carry Retry-After, the X-RateLimit-* header set, and a
// machine-readable JSON body so clients can implement backoff.
//
// Mounted globally with [ratelimit.GeneralAPI] and again per-route with the
// stricter rules (login, OTP, password reset) — each rule counts in its own
// keyspace, so the layered checks never interfere.
func RateLimit(limiter *ratelimit.Limiter, rule ratelimit.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			result := limiter.Check(ratelimit.ClientIdentifier(request), rule)

			if !result.Allowed {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "rate_limit_exceeded",
					slog.String("rule", rule.Prefix),
					slog.Int("retry_after_s", result.ResetInSeconds),
				)
				respond.RateLimited(writer, result.Limit, result.ResetInSeconds)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
