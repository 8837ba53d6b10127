package cache

import (
	"context"
	"time"
)

// ScopedCache prefixes every key before delegating to an inner cache.
// The GitHub client scopes its entries per token so two accounts sharing a
// cache directory never see each other's starred lists.
//
//	user := NewScopedCache(fileCache, "github:3f9a...:")
//	user.Set(ctx, "starred", data, ttl) // stored as "github:3f9a...:starred"
type ScopedCache struct {
	inner  Cache
	prefix string
}

// NewScopedCache wraps inner with prefix. A nil inner behaves as [NullCache].
func NewScopedCache(inner Cache, prefix string) *ScopedCache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

// Prefix returns the key prefix.
func (s *ScopedCache) Prefix() string { return s.prefix }

// Get retrieves a prefixed key.
func (s *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores a prefixed key.
func (s *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes a prefixed key.
func (s *ScopedCache) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the inner cache.
func (s *ScopedCache) Close() error { return s.inner.Close() }

var _ Cache = (*ScopedCache)(nil)
