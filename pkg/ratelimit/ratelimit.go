package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// PerMinute returns a limiter allowing n events per minute with no burst.
// A non-positive n disables limiting.
func PerMinute(n int) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
}

// TokenLimiter budgets model tokens per minute.
type TokenLimiter struct {
	limiter *rate.Limiter
	max     int
}

// NewTokenLimiter allows up to maxPerMinute tokens per minute. A non-positive value disables limiting.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	if maxPerMinute <= 0 {
		return &TokenLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &TokenLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(maxPerMinute)/60), maxPerMinute),
		max:     maxPerMinute,
	}
}

// Wait blocks until n tokens are available. Requests above the per-minute budget wait for a full budget.
func (t *TokenLimiter) Wait(ctx context.Context, n int) error {
	if t.max > 0 && n > t.max {
		n = t.max
	}
	if n <= 0 {
		return nil
	}
	return t.limiter.WaitN(ctx, n)
}

// Remaining reports the tokens currently available.
func (t *TokenLimiter) Remaining() int {
	if t.max == 0 {
		return -1
	}
	return int(t.limiter.Tokens())
}
