// Package ratelimiter bounds the rate at which the acceptor admits new
// TCP connections, using a token bucket.
package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter wraps golang.org/x/time/rate with the two paths the server
// needs: a non-blocking Allow for the accept loop (reject with 429) and a
// context-aware Wait for callers that prefer throttling over rejection.
//
// Thread safety: all methods are safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a RateLimiter sustaining requestsPerSecond with the given
// burst capacity. A zero rate means unlimited.
func New(requestsPerSecond, burst uint) *RateLimiter {
	if requestsPerSecond == 0 {
		// Effectively unlimited; rate.Inf has edge cases with Wait.
		requestsPerSecond = 1_000_000_000
		burst = requestsPerSecond
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst)),
	}
}

// Allow reports whether one more connection may be accepted right now,
// consuming a token when it can. This is the accept loop's fast path.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
