package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAnalysisCache is a Redis-backed implementation of the AnalysisCache
// port. Keys are content hashes produced by the analyzer; Redis handles TTL
// expiry and eviction.
type RedisAnalysisCache struct {
	client *redis.Client
}

func NewRedisAnalysisCache(client *redis.Client) *RedisAnalysisCache {
	return &RedisAnalysisCache{client: client}
}

func (c *RedisAnalysisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.client == nil {
		return nil, false, errors.New("analysis cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get analysis cache: key must not be empty")
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get analysis cache: %w", err)
	}

	return payload, true, nil
}

func (c *RedisAnalysisCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if c.client == nil {
		return errors.New("analysis cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("put analysis cache: key must not be empty")
	}

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("put analysis cache: %w", err)
	}
	return nil
}
