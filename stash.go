package stash

import (
	"strings"
	"sync"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/singleflight"
)

// Cache is a generic in-memory cache keyed by string, with a fixed capacity,
// a fixed-window TTL per entry, and an eviction policy chosen at construction.
type Cache[V any] struct {
	mu       sync.Mutex
	entries  *orderedmap.OrderedMap[string, *entry[V]]
	evictor  evictor
	cfg      config
	counters counters

	sweeper   *sweeper
	destroyed sync.Once

	// single-flight for Fetch
	loading singleflight.Group
}

// New creates a new Cache with the given options and starts its sweeper.
// Call Destroy to stop the sweeper when the cache is no longer needed.
func New[V any](opts ...Option) *Cache[V] {
	return newCache[V](SweepInterval, opts...)
}

func newCache[V any](interval time.Duration, opts ...Option) *Cache[V] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Cache[V]{
		entries: orderedmap.New[string, *entry[V]](),
		evictor: newEvictor(cfg.policy),
		cfg:     cfg,
	}
	c.sweeper = startSweeper(interval, func() { c.sweep() })
	return c
}

// Get returns the value for key and true, or the zero value and false if the
// key is absent or expired. An expired entry is removed. A hit counts as an
// access for LRU and LFU.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	now := c.cfg.clock.Now()

	ent, ok := c.live(key, now)
	if !ok {
		c.counters.miss()
		return zero, false
	}

	ent.touch(now)
	c.counters.hit()
	return ent.value, true
}

// Has reports whether key is present and not expired. Like Get it removes an
// expired entry, but it never counts as an access.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.live(key, c.cfg.clock.Now())
	return ok
}

// live looks up key and lazily removes it if expired.
func (c *Cache[V]) live(key string, now time.Time) (*entry[V], bool) {
	ent, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if ent.isExpired(now) {
		c.remove(key, Expired)
		return nil, false
	}
	return ent, true
}

// Set adds or replaces a value using the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, 0)
}

// SetWithTTL adds or replaces a value with a specific TTL. A non-positive ttl
// means the default TTL. When the cache is full one entry is evicted first,
// even if key is already present. A replaced entry starts with fresh access
// statistics.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.cfg.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries.Len() >= c.cfg.capacity {
		c.evictOne()
	}
	c.entries.Set(key, newEntry(value, ttl, c.cfg.clock.Now()))
}

func (c *Cache[V]) evictOne() {
	key, ok := victim(c.evictor, c.entries)
	if !ok {
		return
	}
	c.remove(key, Evicted)
	c.cfg.logger.Debug("cache entry evicted", "key", key, "policy", c.cfg.policy.String())
}

// Delete removes key and reports whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.remove(key, Deleted)
}

// Invalidate removes every entry whose key contains substr and returns how
// many were removed. The match is a literal substring match.
func (c *Cache[V]) Invalidate(substr string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.removeWhere(Invalidated, func(key string, _ *entry[V]) bool {
		return strings.Contains(key, substr)
	})
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clear()
}

func (c *Cache[V]) clear() {
	if c.cfg.onRemove != nil {
		for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
			c.cfg.onRemove(pair.Key, Cleared)
		}
	}
	c.entries = orderedmap.New[string, *entry[V]]()
}

// Len returns the number of entries in the cache.
// May include expired entries that haven't been cleaned up yet.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries.Len()
}

// Stats returns a snapshot of cache statistics. See Stats.HitRate for how
// the hit rate is defined.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var accessed, total int64
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		if n := pair.Value.accessCount; n > 0 {
			accessed++
			total += n
		}
	}

	return Stats{
		Size:        c.entries.Len(),
		Capacity:    c.cfg.capacity,
		Policy:      c.cfg.policy,
		HitRate:     entryHitRate(accessed, total),
		Hits:        c.counters.hits.Load(),
		Misses:      c.counters.misses.Load(),
		Evictions:   c.counters.evictions.Load(),
		Expirations: c.counters.expirations.Load(),
	}
}

// Destroy stops the background sweeper and clears the cache. It is safe to
// call more than once. The cache stays usable afterwards, with expired
// entries removed only when read.
func (c *Cache[V]) Destroy() {
	c.destroyed.Do(func() {
		c.sweeper.Stop()

		c.mu.Lock()
		defer c.mu.Unlock()
		c.clear()
	})
}

// sweep removes every expired entry and returns how many it removed.
func (c *Cache[V]) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.cfg.clock.Now()
	n := c.removeWhere(Expired, func(_ string, ent *entry[V]) bool {
		return ent.isExpired(now)
	})
	if n > 0 {
		c.cfg.logger.Debug("swept expired cache entries", "removed", n, "remaining", c.entries.Len())
	}
	return n
}

func (c *Cache[V]) removeWhere(reason RemovalReason, match func(string, *entry[V]) bool) int {
	var keys []string
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		if match(pair.Key, pair.Value) {
			keys = append(keys, pair.Key)
		}
	}
	for _, key := range keys {
		c.remove(key, reason)
	}
	return len(keys)
}

func (c *Cache[V]) remove(key string, reason RemovalReason) bool {
	if _, ok := c.entries.Delete(key); !ok {
		return false
	}

	switch reason {
	case Evicted:
		c.counters.evict()
	case Expired:
		c.counters.expire()
	}
	if c.cfg.onRemove != nil {
		c.cfg.onRemove(key, reason)
	}
	return true
}
