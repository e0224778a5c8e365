package cache

import (
	"context"
	"sync"
	"time"
)

// Defaults for the memory backend opened by [Open].
const (
	DefaultMemoryMaxEntries = 10000
	DefaultSweepInterval    = time.Minute
)

// MemoryOptions bounds a MemoryCache. Zero fields disable the bound.
type MemoryOptions struct {
	// MaxEntries caps the number of entries. Inserting a new key into a
	// full cache evicts the entry closest to expiry.
	MaxEntries int
	// SweepInterval runs Sweep periodically until Close.
	SweepInterval time.Duration
}

// MemoryCache keeps entries in process memory. Expired entries are dropped
// on access, by Sweep, and by the periodic sweeper when one is configured.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memEntry
	now        func() time.Time
	maxEntries int

	stop     chan struct{}
	stopOnce sync.Once
}

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty, unbounded in-memory cache.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithOptions(MemoryOptions{})
}

// NewMemoryCacheWithOptions creates an in-memory cache with the given
// bounds. A positive SweepInterval starts a goroutine that Close stops.
func NewMemoryCacheWithOptions(opts MemoryOptions) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]memEntry),
		now:        time.Now,
		maxEntries: max(opts.MaxEntries, 0),
		stop:       make(chan struct{}),
	}
	if opts.SweepInterval > 0 {
		go c.sweepEvery(opts.SweepInterval)
	}
	return c
}

func (c *MemoryCache) sweepEvery(d time.Duration) {
	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.Sweep()
		case <-c.stop:
			return
		}
	}
}

// Sweep removes every expired entry and returns how many it removed.
func (c *MemoryCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked()
}

func (c *MemoryCache) sweepLocked() int {
	now := c.now()
	n := 0
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// makeRoom frees one slot for a new key when the cache is full: expired
// entries go first, then the entry expiring soonest. Entries without a TTL
// are evicted last.
func (c *MemoryCache) makeRoom() {
	if c.maxEntries == 0 || len(c.entries) < c.maxEntries {
		return
	}
	if c.sweepLocked() > 0 {
		return
	}
	var (
		victim string
		soon   time.Time
		found  bool
	)
	for k, e := range c.entries {
		switch {
		case !found:
		case e.expiresAt.IsZero():
			continue
		case !soon.IsZero() && !e.expiresAt.Before(soon):
			continue
		}
		victim, soon, found = k, e.expiresAt, true
	}
	delete(c.entries, victim)
}

func (c *MemoryCache) lookup(key string) (memEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return memEntry{}, false
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return memEntry{}, false
	}
	return e, true
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lookup(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

// Set stores a copy of data.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memEntry{data: append([]byte(nil), data...)}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	if _, ok := c.entries[key]; !ok {
		c.makeRoom()
	}
	c.entries[key] = e
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Take reads and removes key under one lock.
func (c *MemoryCache) Take(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lookup(key)
	if !ok {
		return nil, false, nil
	}
	delete(c.entries, key)
	return e.data, true, nil
}

// Len returns the number of live entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if _, ok := c.lookup(k); ok {
			n++
		}
	}
	return n
}

// Close stops the sweeper and drops all entries.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}

var (
	_ Cache = (*MemoryCache)(nil)
	_ Taker = (*MemoryCache)(nil)
)
