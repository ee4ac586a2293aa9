package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisAnalysisCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisAnalysisCache(client), srv
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()

	payload := []byte(`{"overall_risk":"low"}`)
	require.NoError(t, c.Put(ctx, "analysis:abc", payload, time.Minute))

	got, ok, err := c.Get(ctx, "analysis:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestRedisCacheMiss(t *testing.T) {
	c, _ := newTestRedisCache(t)

	got, ok, err := c.Get(context.Background(), "analysis:missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedisCacheExpiry(t *testing.T) {
	c, srv := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "analysis:abc", []byte(`{}`), time.Minute))
	srv.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "analysis:abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheRejectsEmptyKey(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()

	_, _, err := c.Get(ctx, "  ")
	assert.Error(t, err)
	assert.Error(t, c.Put(ctx, "", []byte(`{}`), time.Minute))
}

func TestRedisCacheConnectionError(t *testing.T) {
	c, srv := newTestRedisCache(t)
	srv.Close()

	_, _, err := c.Get(context.Background(), "analysis:abc")
	assert.Error(t, err)
}
