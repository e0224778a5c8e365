package cache

import (
	"context"
	"time"
)

// ScopedKeyer wraps a Keyer with a prefix so several sites can share one
// backend without their entries colliding.
//
// Example usage:
//
//	siteKeyer := NewScopedKeyer(NewDefaultKeyer(), "site:portfolio:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(galleryHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(galleryHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// BoardKey generates a prefixed key for a published board.
func (k *ScopedKeyer) BoardKey(id string) string {
	return k.prefix + k.inner.BoardKey(id)
}

// HandoffKey generates a prefixed key for a handoff value.
func (k *ScopedKeyer) HandoffKey(client string) string {
	return k.prefix + k.inner.HandoffKey(client)
}

// PrefixCache namespaces every key of an underlying cache. It preserves
// atomic Take when the underlying cache supports it.
type PrefixCache struct {
	inner  Cache
	prefix string
}

// NewCacheWithPrefix wraps c so that all keys are prefixed.
func NewCacheWithPrefix(c Cache, prefix string) *PrefixCache {
	return &PrefixCache{inner: c, prefix: prefix}
}

// Get retrieves prefix+key from the underlying cache.
func (c *PrefixCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores data under prefix+key.
func (c *PrefixCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes prefix+key.
func (c *PrefixCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Take reads and removes prefix+key.
func (c *PrefixCache) Take(ctx context.Context, key string) ([]byte, bool, error) {
	return Take(ctx, c.inner, c.prefix+key)
}

// Close closes the underlying cache.
func (c *PrefixCache) Close() error {
	return c.inner.Close()
}

var (
	_ Cache = (*PrefixCache)(nil)
	_ Taker = (*PrefixCache)(nil)
)
