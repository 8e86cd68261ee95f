package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetExpire(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	now = now.Add(time.Minute)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_DeletePrefix(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_ = store.Set(ctx, "shipping_quote:a", []byte("1"), 0)
	_ = store.Set(ctx, "shipping_quote:b", []byte("2"), 0)
	_ = store.Set(ctx, "other", []byte("3"), 0)

	n, err := store.DeletePrefix(ctx, "shipping_quote:")

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, ok, _ := store.Get(ctx, "other")
	assert.True(t, ok)
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()
	_ = store.Set(ctx, "short", []byte("1"), time.Second)
	_ = store.Set(ctx, "forever", []byte("2"), 0)

	now = now.Add(2 * time.Second)

	assert.Equal(t, 1, store.Sweep())
	_, ok, _ := store.Get(ctx, "forever")
	assert.True(t, ok)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("CACHE_ADDR")
	if addr == "" {
		t.Skip("CACHE_ADDR not set")
	}
	client, err := NewRedisClient(addr, os.Getenv("CACHE_PASSWORD"), 14)
	if err != nil {
		t.Skipf("cache unavailable: %v", err)
	}
	defer client.Close()

	store := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "test:quote:1", []byte("rates"), time.Minute))
	v, ok, err := store.Get(ctx, "test:quote:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "rates", string(v))

	n, err := store.DeletePrefix(ctx, "test:quote:")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok, err = store.Get(ctx, "test:quote:1")
	require.NoError(t, err)
	assert.False(t, ok)
}
