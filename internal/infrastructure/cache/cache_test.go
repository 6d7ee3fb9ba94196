package cache

import (
	"context"
	"testing"
	"time"

	"github.com/saifghl/lms/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDashboardCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		c := NewInMemoryDashboardCache()

		_, ok, err := c.Get(ctx, "2025-01-15")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, c.Set(ctx, "2025-01-15", []byte(`{"metrics":{}}`), time.Minute))
		got, ok, err := c.Get(ctx, "2025-01-15")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `{"metrics":{}}`, string(got))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		c := NewInMemoryDashboardCache()
		require.NoError(t, c.Set(ctx, "k", []byte("abc"), time.Minute))

		got, _, _ := c.Get(ctx, "k")
		got[0] = 'x'

		again, _, _ := c.Get(ctx, "k")
		assert.Equal(t, "abc", string(again))
	})

	t.Run("expired entries are dropped", func(t *testing.T) {
		c := NewInMemoryDashboardCache()
		now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }

		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
		now = now.Add(time.Minute)

		_, ok, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Size())
	})

	t.Run("invalidate all", func(t *testing.T) {
		c := NewInMemoryDashboardCache()
		require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
		require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Minute))

		require.NoError(t, c.InvalidateAll(ctx))
		assert.Equal(t, 0, c.Size())
		assert.NoError(t, c.Close())
	})
}

func TestDashboardCacheFactory(t *testing.T) {
	t.Run("redis disabled uses in-memory", func(t *testing.T) {
		c, err := NewDashboardCacheFactory(config.RedisConfig{Enabled: false}).Create()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryDashboardCache{}, c)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}
		c, err := NewDashboardCacheFactory(cfg).Create()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryDashboardCache{}, c)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}
		_, err := NewDashboardCacheFactory(cfg, WithInMemoryFallback(false)).Create()
		assert.ErrorContains(t, err, "unavailable")
	})
}
