// Package cache stores API responses between starctl invocations.
//
// Backends implement [Cache]: [FileCache] for the CLI's default on-disk
// cache, [RedisCache] for a shared cache, and [NullCache] when caching is
// disabled. Values are opaque bytes; callers own the encoding.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value stored under key. A miss or an expired entry
	// returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
