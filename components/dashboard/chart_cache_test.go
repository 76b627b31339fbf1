package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartCacheStoresEntry(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}

	val1, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	val2, err := cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, "html", val1)
	assert.Equal(t, val1, val2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestChartCacheExpires(t *testing.T) {
	cache := NewChartCache(time.Minute)
	now := time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestChartCacheSweepsExpiredKeysOnWrite(t *testing.T) {
	cache := NewChartCache(time.Minute)
	now := time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	render := func() (string, error) { return "html", nil }

	for _, key := range []string{"chart:a:v1", "chart:a:v2", "chart:a:v3"} {
		_, err := cache.GetOrRender(key, render)
		require.NoError(t, err)
	}
	require.Len(t, cache.entries, 3)

	now = now.Add(2 * time.Minute)
	_, err := cache.GetOrRender("chart:a:v4", render)
	require.NoError(t, err)

	assert.Len(t, cache.entries, 1)
	assert.Equal(t, 1, cache.Len())
}

func TestChartCacheDoesNotStoreErrors(t *testing.T) {
	cache := NewChartCache(time.Minute)
	_, err := cache.GetOrRender("key", func() (string, error) { return "", errors.New("boom") })
	require.Error(t, err)
	assert.Zero(t, cache.Len())
}

func TestChartCachePurgeByPrefix(t *testing.T) {
	cache := NewChartCache(time.Minute)
	for _, key := range []string{"chart:default:a", "chart:default:b", "chart:brutalist:a"} {
		_, err := cache.GetOrRender(key, func() (string, error) { return key, nil })
		require.NoError(t, err)
	}

	assert.Equal(t, 2, cache.Purge("chart:default:"))
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1, cache.Purge(""))
	assert.Zero(t, cache.Len())
}

func TestChartCacheDisabledWithoutTTL(t *testing.T) {
	cache := NewChartCache(0)
	calls := 0
	render := func() (string, error) {
		calls++
		return "x", nil
	}
	_, _ = cache.GetOrRender("key", render)
	_, _ = cache.GetOrRender("key", render)
	assert.Equal(t, 2, calls)
}
