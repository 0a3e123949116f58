package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

func testConfig(maxSize int, ttl time.Duration) *config.Config {
	return &config.Config{Cache: config.CacheConfig{
		Enabled: true,
		Backend: "memory",
		MaxSize: maxSize,
		TTL:     ttl,
	}}
}

func TestManagerGetSet(t *testing.T) {
	m := NewManager(testConfig(10, time.Hour))
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "k", "레시피"))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "레시피", got)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.InDelta(t, 0.5, stats.HitRatio, 0.001)
}

func TestManagerExpiry(t *testing.T) {
	m := NewManager(testConfig(10, 20*time.Millisecond))
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v"))
	time.Sleep(40 * time.Millisecond)

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	assert.Equal(t, 0, m.GetStats().Size)
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	m := NewManager(testConfig(2, time.Hour))
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	_, err = m.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = m.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestKeyNormalizesWhitespace(t *testing.T) {
	assert.Equal(t, Key("김치찌개  레시피"), Key(" 김치찌개\n레시피 "))
	assert.NotEqual(t, Key("김치찌개"), Key("된장찌개"))
	assert.Contains(t, Key("x"), "ai:answer:")
}

func TestNewSelectsBackend(t *testing.T) {
	disabled := testConfig(1, time.Hour)
	disabled.Cache.Enabled = false
	store, err := New(disabled)
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = New(testConfig(1, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "memory", store.Name())
	_ = store.Close()

	unknown := testConfig(1, time.Hour)
	unknown.Cache.Backend = "memcached"
	_, err = New(unknown)
	assert.Error(t, err)
}

func TestNewRedisStoreErrors(t *testing.T) {
	cfg := testConfig(1, time.Hour)
	cfg.Redis.URL = "not-a-url://"
	_, err := NewRedisStore(cfg)
	assert.Error(t, err)

	cfg.Redis.URL = ""
	cfg.Redis.Addr = "127.0.0.1:1"
	_, err = NewRedisStore(cfg)
	assert.Error(t, err)
}
