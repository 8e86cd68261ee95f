package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/woo-crm/internal/infra/cache"
)

func TestMemoryLimiter_BlocksAfterLimit(t *testing.T) {
	rl := NewMemoryLimiter(3, time.Minute)
	defer rl.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}
	ok, _ := rl.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	ok, _ = rl.Allow(ctx, "10.0.0.2")
	assert.True(t, ok)
}

func TestMemoryLimiter_ResetsAfterWindow(t *testing.T) {
	rl := NewMemoryLimiter(1, time.Minute)
	defer rl.Close()
	now := time.Now()
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := rl.Allow(ctx, "k")
	assert.True(t, ok)
	ok, _ = rl.Allow(ctx, "k")
	assert.False(t, ok)

	now = now.Add(time.Minute)
	ok, _ = rl.Allow(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryLimiter_SweepDropsIdleVisitors(t *testing.T) {
	rl := NewMemoryLimiter(1, time.Second)
	defer rl.Close()
	now := time.Now()
	rl.now = func() time.Time { return now }

	_, _ = rl.Allow(context.Background(), "k")
	now = now.Add(3 * time.Second)
	rl.sweep()

	assert.Empty(t, rl.visitors)
}

func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("CACHE_ADDR")
	if addr == "" {
		t.Skip("CACHE_ADDR not set")
	}
	client, err := cache.NewRedisClient(addr, os.Getenv("CACHE_PASSWORD"), 14)
	if err != nil {
		t.Skipf("cache unavailable: %v", err)
	}
	defer client.Close()

	rl := NewRedisLimiter(client, "test-"+time.Now().Format("150405.000"), 2, time.Minute)
	ctx := context.Background()

	for _, want := range []bool{true, true, false} {
		ok, err := rl.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}
}
