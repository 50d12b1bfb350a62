package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RequestLimiter caps how many calls may start inside a sliding window. Unlike
// an interval pacer it counts actual call timestamps, so a burst of callers is
// admitted immediately until the cap is hit and later callers block until the
// oldest recorded call leaves the window.
type RequestLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	calls  []time.Time

	now func() time.Time
}

// NewRequestLimiter creates a limiter admitting at most max calls per window.
func NewRequestLimiter(max int, window time.Duration) *RequestLimiter {
	return &RequestLimiter{
		max:    max,
		window: window,
		calls:  make([]time.Time, 0, max),
		now:    time.Now,
	}
}

// Wait blocks until a slot is free, records the call, and returns. It returns
// early with the context error if ctx is cancelled while waiting. Callers are
// delayed, never rejected.
func (l *RequestLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)
		if len(l.calls) < l.max {
			l.calls = append(l.calls, now)
			l.mu.Unlock()
			return nil
		}
		wait := l.calls[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Remaining reports how many calls could start right now without waiting.
func (l *RequestLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return l.max - len(l.calls)
}

// prune drops timestamps that have left the window. Callers hold l.mu.
func (l *RequestLimiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	idx := 0
	for idx < len(l.calls) && !l.calls[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		l.calls = append(l.calls[:0], l.calls[idx:]...)
	}
}
