// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package ratelimit_test

import (
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketon/bracketon/internal/platform/ratelimit"
)

/*
TestLimiter_BudgetExhaustion verifies the allow/deny sequence through one
full window for a single client.
*/
func TestLimiter_BudgetExhaustion(t *testing.T) {
	limiter := ratelimit.New()
	rule := ratelimit.Rule{Prefix: "test", MaxRequests: 3, Window: time.Minute}

	// 1. First three requests pass with a decreasing budget.
	for i := 0; i < 3; i++ {
		result := limiter.Check("1.2.3.4", rule)
		assert.True(t, result.Allowed)
		assert.Equal(t, 3, result.Limit)
		assert.Equal(t, 2-i, result.Remaining)
	}

	// 2. Fourth request is denied with retry guidance.
	result := limiter.Check("1.2.3.4", rule)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.Greater(t, result.ResetInSeconds, 0)
	assert.LessOrEqual(t, result.ResetInSeconds, 60)
}

/*
TestLimiter_WindowReset verifies that the budget is fully restored once the
window passes, using an injected clock.
*/
func TestLimiter_WindowReset(t *testing.T) {
	limiter := ratelimit.New()
	rule := ratelimit.Rule{Prefix: "test", MaxRequests: 2, Window: time.Minute}

	currentTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.SetNow(func() time.Time { return currentTime })

	limiter.Check("1.2.3.4", rule)
	limiter.Check("1.2.3.4", rule)
	require.False(t, limiter.Check("1.2.3.4", rule).Allowed)

	// Move past the window boundary: fresh budget.
	currentTime = currentTime.Add(61 * time.Second)
	result := limiter.Check("1.2.3.4", rule)
	assert.True(t, result.Allowed)
	assert.Equal(t, 1, result.Remaining)
}

/*
TestLimiter_Isolation verifies that distinct identifiers and distinct rule
prefixes never share a budget.
*/
func TestLimiter_Isolation(t *testing.T) {
	limiter := ratelimit.New()
	login := ratelimit.Rule{Prefix: "login", MaxRequests: 1, Window: time.Minute}
	otp := ratelimit.Rule{Prefix: "otp", MaxRequests: 1, Window: time.Minute}

	// Exhaust login for one client.
	require.True(t, limiter.Check("1.2.3.4", login).Allowed)
	require.False(t, limiter.Check("1.2.3.4", login).Allowed)

	// Different client: unaffected.
	assert.True(t, limiter.Check("5.6.7.8", login).Allowed)

	// Same client, different purpose: unaffected.
	assert.True(t, limiter.Check("1.2.3.4", otp).Allowed)
}

/*
TestLimiter_ConcurrentChecks verifies the core invariant under parallel load:
never more than MaxRequests successes inside a single window.
*/
func TestLimiter_ConcurrentChecks(t *testing.T) {
	limiter := ratelimit.New()
	rule := ratelimit.Rule{Prefix: "test", MaxRequests: 10, Window: time.Minute}

	const attempts = 100
	var allowed atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Check("1.2.3.4", rule).Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), allowed.Load())
}

/*
TestLimiter_Eviction verifies that expired entries are removed while live
ones survive a sweep.
*/
func TestLimiter_Eviction(t *testing.T) {
	limiter := ratelimit.New()
	short := ratelimit.Rule{Prefix: "short", MaxRequests: 5, Window: time.Minute}
	long := ratelimit.Rule{Prefix: "long", MaxRequests: 5, Window: time.Hour}

	currentTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.SetNow(func() time.Time { return currentTime })

	limiter.Check("1.2.3.4", short)
	limiter.Check("1.2.3.4", long)
	require.Equal(t, 2, limiter.Len())

	// Only the short window has passed.
	currentTime = currentTime.Add(2 * time.Minute)
	limiter.EvictExpired()

	assert.Equal(t, 1, limiter.Len())
}

/*
TestClientIdentifier verifies the proxy-header derivation order.
*/
func TestClientIdentifier(t *testing.T) {
	tests := []struct {
		name         string
		forwardedFor string
		realIP       string
		expected     string
	}{
		{"forwarded_single", "203.0.113.9", "", "203.0.113.9"},
		{"forwarded_chain_takes_first", "203.0.113.9, 10.0.0.1, 10.0.0.2", "198.51.100.1", "203.0.113.9"},
		{"real_ip_fallback", "", "198.51.100.1", "198.51.100.1"},
		{"no_headers", "", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/", nil)
			if tt.forwardedFor != "" {
				request.Header.Set("X-Forwarded-For", tt.forwardedFor)
			}
			if tt.realIP != "" {
				request.Header.Set("X-Real-IP", tt.realIP)
			}

			assert.Equal(t, tt.expected, ratelimit.ClientIdentifier(request))
		})
	}
}
