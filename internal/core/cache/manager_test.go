package cache

import (
	"testing"
	"time"

	"recipe-suggester/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(maxSize int, ttl time.Duration) *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         maxSize,
			TTL:             ttl,
			CleanupInterval: time.Minute,
		},
	}
}

func TestSetGetInvalidate(t *testing.T) {
	m := NewManager(testConfig(10, time.Minute))
	require.NotNil(t, m)
	defer m.Close()

	_, ok := m.Get("missing")
	assert.False(t, ok)

	require.NoError(t, m.Set("k", "v"))
	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	m.Invalidate("k")
	_, ok = m.Get("k")
	assert.False(t, ok)
}

func TestExpiredEntryIsAMiss(t *testing.T) {
	m := NewManager(testConfig(10, 10*time.Millisecond))
	require.NotNil(t, m)
	defer m.Close()

	require.NoError(t, m.Set("k", "v"))
	time.Sleep(30 * time.Millisecond)

	_, ok := m.Get("k")
	assert.False(t, ok)
}

func TestLRUEvictionWhenFull(t *testing.T) {
	m := NewManager(testConfig(2, time.Minute))
	require.NotNil(t, m)
	defer m.Close()

	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))

	// Touch "a" so "b" is the eviction candidate.
	_, ok := m.Get("a")
	require.True(t, ok)

	require.NoError(t, m.Set("c", "3"))

	_, ok = m.Get("a")
	assert.True(t, ok)
	_, ok = m.Get("b")
	assert.False(t, ok)
	_, ok = m.Get("c")
	assert.True(t, ok)
}

func TestDisabledCacheReturnsNilManager(t *testing.T) {
	cfg := testConfig(10, time.Minute)
	cfg.Cache.Enabled = false

	m := NewManager(cfg)
	assert.Nil(t, m)

	// All methods tolerate the nil receiver.
	assert.NoError(t, m.Set("k", "v"))
	_, ok := m.Get("k")
	assert.False(t, ok)
	m.Invalidate("k")
	assert.NoError(t, m.Close())

	stats := m.Stats()
	assert.Equal(t, false, stats["enabled"])
}

func TestStats(t *testing.T) {
	m := NewManager(testConfig(10, time.Minute))
	require.NotNil(t, m)
	defer m.Close()

	require.NoError(t, m.Set("k", "v"))
	m.Get("k")
	m.Get("missing")

	stats := m.Stats()
	assert.Equal(t, true, stats["enabled"])
	assert.Equal(t, 1, stats["size"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}
