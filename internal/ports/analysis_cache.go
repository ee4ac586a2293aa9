package ports

import (
	"context"
	"time"
)

// Port for caching situation-analysis results keyed by a content hash of the
// inputs. Entries expire; implementations decide eviction beyond TTL.
// A nil cache is legal everywhere a cache is accepted — callers skip it.
type AnalysisCache interface {
	// Get returns the cached payload for key, or ok=false on a miss.
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	// Put stores payload under key for at most ttl.
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
