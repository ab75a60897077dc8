// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, token lifetimes, cookie settings, and cross-cutting
keys that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Security: Token lifetimes and cookie configuration.
  - Rate Limiting: Sweep cadence for the in-memory counters.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "bracketon-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in session tokens.
	AuthIssuer = "bracketon.app"

	// SessionTokenTTL is how long a signed session token stays valid.
	// Invalidating earlier requires the client to drop the cookie; there is
	// no server-side revocation list.
	SessionTokenTTL = 7 * 24 * time.Hour

	// CSRFTokenTTL is how long an issued CSRF token stays valid. One token is
	// reused for all mutations within this window.
	CSRFTokenTTL = 24 * time.Hour

	// AuthCookieName carries the signed session token. HttpOnly.
	AuthCookieName = "auth_token"

	// CSRFCookieName carries the CSRF token. Deliberately NOT HttpOnly so the
	// frontend can read it and echo it back in the X-CSRF-Token header.
	CSRFCookieName = "csrf_token"

	// AuthCookieMaxAge mirrors SessionTokenTTL in seconds (7 days).
	AuthCookieMaxAge = 604800

	// CSRFCookieMaxAge mirrors CSRFTokenTTL in seconds (24 hours).
	CSRFCookieMaxAge = 86400

	// HeaderCSRFToken is the client-supplied echo of the CSRF cookie value.
	HeaderCSRFToken = "X-CSRF-Token"

	// HeaderAuthorization is the legacy Bearer-token carrier.
	HeaderAuthorization = "Authorization"
)

// # Rate Limiting

const (
	// RateLimitSweepInterval is how often expired window entries are removed
	// from memory. Best-effort: expired entries are also replaced lazily.
	RateLimitSweepInterval = 5 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"

	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldSuccess = "success"
)

// # Exempt Paths

// GuardExemptPaths lists the pre-authentication endpoints that bypass both the
// CSRF mutation guard and the outer access gate. No session exists yet on any
// of these flows, so a CSRF token cannot be required.
var GuardExemptPaths = []string{
	"/api/v1/auth/login",
	"/api/v1/auth/otp/send",
	"/api/v1/auth/otp/verify",
	"/api/v1/auth/forgot-password",
	"/api/v1/auth/reset-password",
}

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixResetToken = "auth:reset_token:"
	RedisPrefixOTPCode    = "auth:otp_code:"
)
