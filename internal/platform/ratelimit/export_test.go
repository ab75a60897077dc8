// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package ratelimit

import "time"

// SetNow overrides the limiter's clock. Test hook only.
func (limiter *Limiter) SetNow(now func() time.Time) { limiter.now = now }

// EvictExpired exposes the sweep step without the ticker. Test hook only.
func (limiter *Limiter) EvictExpired() { limiter.evictExpired() }
