// Package cache memoizes renders of a document and stores rendered
// artifacts.
//
// [RenderedFile] wraps one document and keeps at most one render per mode,
// keyed by the mode and a hash of the render options. Renders that include
// inline documentation or skip diff ranges always bypass the slots.
//
// The [Cache] interface stores opaque byte artifacts with a TTL. The CLI uses
// [FileCache] or, when configured, [RedisCache]; [NullCache] disables
// caching.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value stored under key. The bool reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// TTLArtifact is how long rendered CLI artifacts stay valid.
const TTLArtifact = 7 * 24 * time.Hour

// NullCache misses on every lookup and discards writes. It backs --no-cache.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
