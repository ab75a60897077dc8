// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

/*
Package ratelimit implements an in-memory fixed-window request counter.

It tracks request counts per identifier+purpose inside discrete time windows.
The fixed-window strategy (not a true sliding log) is a deliberate choice:
O(1) per check, no per-request allocations after the first hit, and an
accepted imprecision of up to 2x burst when a window boundary is crossed.

Distinct purposes (login, registration, OTP dispatch, password reset, general
API) each get their own keyspace via a key prefix, so exhausting one budget
never affects another.
*/
package ratelimit

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bracketon/bracketon/internal/platform/constants"
)

// Rule is a named limiter configuration.
type Rule struct {
	// Prefix isolates this rule's keyspace inside the shared entry map.
	Prefix string
	// MaxRequests is the number of requests allowed per window.
	MaxRequests int
	// Window is the length of the counting window.
	Window time.Duration
}

// Preconfigured rules for the platform's sensitive endpoints.
var (
	// Login allows 5 attempts per 15 minutes per client IP.
	Login = Rule{Prefix: "login", MaxRequests: 5, Window: 15 * time.Minute}

	// Registration allows 3 sign-ups per hour per client IP.
	Registration = Rule{Prefix: "register", MaxRequests: 3, Window: time.Hour}

	// OTPDispatch allows 3 one-time-code sends per 10 minutes per client IP.
	OTPDispatch = Rule{Prefix: "otp", MaxRequests: 3, Window: 10 * time.Minute}

	// PasswordReset allows 3 reset requests per 30 minutes per client IP.
	PasswordReset = Rule{Prefix: "pwreset", MaxRequests: 3, Window: 30 * time.Minute}

	// GeneralAPI allows 100 requests per minute per client IP.
	GeneralAPI = Rule{Prefix: "api", MaxRequests: 100, Window: time.Minute}
)

// Result is the outcome of a single limiter check.
type Result struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Limit echoes the rule's MaxRequests.
	Limit int
	// Remaining is the number of requests left in the current window.
	Remaining int
	// ResetInSeconds is the whole seconds (rounded up) until the window resets.
	// Zero when the request was allowed into a fresh window.
	ResetInSeconds int
}

// entry is the mutable per-key counter state.
type entry struct {
	count         int
	windowResetAt time.Time
}

// Limiter is a concurrency-safe fixed-window counter store.
//
// # Concurrency
//
// Every Check is a read-then-write on the shared map, so the whole
// check-and-increment runs under one mutex. Under Go's genuinely parallel
// scheduler this is what keeps the "never more than MaxRequests successes per
// window" invariant — an unguarded map would lose updates between goroutines.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	// now is injectable for window-expiry tests.
	now func() time.Time
}

// New creates an empty Limiter.
func New() *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Check records one request for identifier under the given rule and reports
// whether it is allowed.
//
// # Algorithm
//
//  1. Missing or expired entry: start a fresh window with count=1 — allow.
//  2. Entry at or above MaxRequests: deny, report seconds until reset.
//  3. Otherwise: increment — allow.
//
// Expired entries are replaced lazily here, so [Limiter.Sweep] is purely a
// memory bound, not a correctness requirement.
func (limiter *Limiter) Check(identifier string, rule Rule) Result {
	key := rule.Prefix + ":" + identifier
	currentTime := limiter.now()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	existing, found := limiter.entries[key]

	// 1. Fresh window
	if !found || !currentTime.Before(existing.windowResetAt) {
		limiter.entries[key] = &entry{
			count:         1,
			windowResetAt: currentTime.Add(rule.Window),
		}
		return Result{
			Allowed:   true,
			Limit:     rule.MaxRequests,
			Remaining: rule.MaxRequests - 1,
		}
	}

	// 2. Budget exhausted
	if existing.count >= rule.MaxRequests {
		return Result{
			Allowed:        false,
			Limit:          rule.MaxRequests,
			Remaining:      0,
			ResetInSeconds: secondsUntil(existing.windowResetAt, currentTime),
		}
	}

	// 3. Count the request
	existing.count++
	return Result{
		Allowed:   true,
		Limit:     rule.MaxRequests,
		Remaining: rule.MaxRequests - existing.count,
	}
}

// Len returns the number of live entries. Intended for tests and diagnostics.
func (limiter *Limiter) Len() int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	return len(limiter.entries)
}

// Sweep runs a periodic garbage collection of expired window entries until
// the context is cancelled. It bounds memory growth for identifier churn
// (every distinct client IP creates an entry).
func (limiter *Limiter) Sweep(ctx context.Context) {
	ticker := time.NewTicker(constants.RateLimitSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			limiter.evictExpired()
		case <-ctx.Done():
			// Stop the goroutine when the application shuts down
			return
		}
	}
}

// evictExpired removes every entry whose window has passed.
func (limiter *Limiter) evictExpired() {
	currentTime := limiter.now()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for key, existing := range limiter.entries {
		if !currentTime.Before(existing.windowResetAt) {
			delete(limiter.entries, key)
		}
	}
}

// secondsUntil returns the whole seconds (rounded up) from now until deadline.
func secondsUntil(deadline, now time.Time) int {
	remaining := deadline.Sub(now)
	seconds := int((remaining + time.Second - 1) / time.Second)
	if seconds < 0 {
		return 0
	}
	return seconds
}

// ClientIdentifier derives the rate-limiting identifier for a request.
//
// # Derivation
//
// First entry of X-Forwarded-For, else X-Real-IP, else the sentinel
// "unknown". Behind a misconfigured proxy all clients therefore share one
// bucket — an accepted degradation, preferable to trusting RemoteAddr of the
// proxy itself.
func ClientIdentifier(request *http.Request) string {
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	return "unknown"
}
