package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a per-minute token budget for AI providers that meter
// usage in tokens rather than requests.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int
	windowStart time.Time

	now func() time.Time
}

// NewTokenLimiter creates a TokenLimiter allowing maxPerMinute tokens in each
// one-minute window.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMin: maxPerMinute,
		now:       time.Now,
	}
}

// Wait blocks until n tokens fit in the current window, then records them.
// A request larger than the whole budget is admitted alone into an empty
// window instead of blocking forever.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	for {
		l.mu.Lock()
		now := l.now()
		if l.windowStart.IsZero() || now.Sub(l.windowStart) >= time.Minute {
			l.used = 0
			l.windowStart = now
		}
		if l.used+n <= l.maxPerMin || (l.used == 0 && n > l.maxPerMin) {
			l.used += n
			l.mu.Unlock()
			return nil
		}
		wait := l.windowStart.Add(time.Minute).Sub(now)
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// GetRemaining reports how many tokens are still available in the current
// window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.windowStart.IsZero() || l.now().Sub(l.windowStart) >= time.Minute {
		return l.maxPerMin
	}
	remaining := l.maxPerMin - l.used
	if remaining < 0 {
		return 0
	}
	return remaining
}
