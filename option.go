package stash

import (
	"log/slog"
	"time"
)

const (
	// DefaultCapacity is the default maximum number of entries.
	DefaultCapacity = 1000

	// DefaultTTL is the default time-to-live for entries.
	DefaultTTL = 5 * time.Minute
)

// RemovalReason says why an entry left the cache.
type RemovalReason int

const (
	// Evicted means the entry was chosen by the eviction policy.
	Evicted RemovalReason = iota
	// Expired means the entry outlived its TTL.
	Expired
	// Deleted means Delete removed the entry.
	Deleted
	// Invalidated means Invalidate matched the entry's key.
	Invalidated
	// Cleared means Clear or Destroy removed the entry.
	Cleared
)

func (r RemovalReason) String() string {
	switch r {
	case Evicted:
		return "evicted"
	case Expired:
		return "expired"
	case Deleted:
		return "deleted"
	case Invalidated:
		return "invalidated"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

type config struct {
	capacity int
	ttl      time.Duration
	policy   Policy
	clock    Clock
	logger   *slog.Logger
	onRemove func(string, RemovalReason)
}

func defaultConfig() config {
	return config{
		capacity: DefaultCapacity,
		ttl:      DefaultTTL,
		policy:   LRU,
		clock:    realClock{},
		logger:   slog.New(slog.DiscardHandler),
	}
}

// Option configures a Cache.
type Option func(*config)

// WithCapacity sets the maximum number of entries in the cache.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithTTL sets the default time-to-live for cache entries.
// Non-positive durations are ignored.
func WithTTL(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithPolicy sets the eviction policy. Unknown policies are ignored.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		if p.valid() {
			c.policy = p
		}
	}
}

// WithClock sets a custom clock for time operations.
// Useful for testing TTL behavior.
func WithClock(clk Clock) Option {
	return func(c *config) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// OnRemove sets a callback invoked whenever an entry leaves the cache.
// It runs with the cache lock held and must not call back into the cache.
func OnRemove(fn func(key string, reason RemovalReason)) Option {
	return func(c *config) {
		c.onRemove = fn
	}
}
