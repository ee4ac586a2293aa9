package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryAnalysisCache is an in-process TTL cache for deployments without
// Redis. It is an explicit injected component, not a package-level map.
type MemoryAnalysisCache struct {
	store *gocache.Cache
}

func NewMemoryAnalysisCache(defaultTTL time.Duration) *MemoryAnalysisCache {
	return &MemoryAnalysisCache{
		store: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

func (c *MemoryAnalysisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get analysis cache: key must not be empty")
	}

	v, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	payload, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return payload, true, nil
}

func (c *MemoryAnalysisCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("put analysis cache: key must not be empty")
	}

	c.store.Set(key, payload, ttl)
	return nil
}
