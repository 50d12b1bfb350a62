package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiterAdmitsWithinBudget(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	now := base
	limiter := NewTokenLimiter(1000)
	limiter.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, limiter.Wait(ctx, 400))
	require.NoError(t, limiter.Wait(ctx, 400))
	assert.Equal(t, 200, limiter.GetRemaining())

	// A fresh window restores the full budget.
	now = base.Add(time.Minute)
	assert.Equal(t, 1000, limiter.GetRemaining())
	require.NoError(t, limiter.Wait(ctx, 900))
	assert.Equal(t, 100, limiter.GetRemaining())
}

func TestTokenLimiterOversizedRequestAdmittedAlone(t *testing.T) {
	limiter := NewTokenLimiter(100)

	require.NoError(t, limiter.Wait(context.Background(), 500))
	assert.Equal(t, 0, limiter.GetRemaining())
}

func TestTokenLimiterBlocksUntilNextWindow(t *testing.T) {
	limiter := NewTokenLimiter(100)
	require.NoError(t, limiter.Wait(context.Background(), 100))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, 50)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
