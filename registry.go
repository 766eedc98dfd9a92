package stash

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmgilman/go/errors"
)

// instance is the value-type-independent view of an opened cache.
type instance interface {
	Stats() Stats
	Destroy()
}

// Registry owns the named caches of a process. Build one at startup and pass
// it to the components that need a cache; each name maps to one independently
// configured Cache, and operations on one cache never affect another.
type Registry struct {
	mu      sync.Mutex
	configs map[string]InstanceConfig
	names   []string
	caches  map[string]instance
	opts    []Option
	logger  *slog.Logger
	closed  bool
}

// NewRegistry validates cfg and returns a registry that opens caches from it.
// opts apply to every cache before the instance's own settings, which makes
// them the place for a shared clock or logger.
func NewRegistry(cfg Config, opts ...Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := defaultConfig()
	for _, opt := range opts {
		opt(&base)
	}

	r := &Registry{
		configs: make(map[string]InstanceConfig, len(cfg.Instances)),
		names:   make([]string, 0, len(cfg.Instances)),
		caches:  make(map[string]instance, len(cfg.Instances)),
		opts:    opts,
		logger:  base.logger,
	}
	for _, ic := range cfg.Instances {
		r.configs[ic.Name] = ic
		r.names = append(r.names, ic.Name)
	}
	return r, nil
}

// Open returns the cache registered under name, creating it on first use.
// Every later call with the same name and value type returns the same cache.
func Open[V any](r *Registry, name string) (*Cache[V], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errors.WithContext(
			errors.New(errors.CodeUnavailable, "cache registry is closed"),
			"instance", name,
		)
	}

	if inst, ok := r.caches[name]; ok {
		c, ok := inst.(*Cache[V])
		if !ok {
			return nil, errors.WithContext(
				errors.Newf(errors.CodeConflict, "cache instance already opened as %T", inst),
				"instance", name,
			)
		}
		return c, nil
	}

	ic, ok := r.configs[name]
	if !ok {
		return nil, errors.WithContext(
			errors.New(errors.CodeNotFound, "cache instance not configured"),
			"instance", name,
		)
	}

	opts := make([]Option, 0, len(r.opts)+3)
	opts = append(opts, r.opts...)
	opts = append(opts, ic.options()...)

	c := New[V](opts...)
	r.caches[name] = c
	r.logger.Info("cache instance opened",
		"instance", name,
		"capacity", ic.Capacity,
		"ttl", ic.TTL.String(),
		"policy", ic.Policy.String(),
		"value_type", fmt.Sprintf("%T", *new(V)),
	)
	return c, nil
}

// Names returns the configured instance names in configuration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Stats returns statistics for every opened instance, keyed by name.
func (r *Registry) Stats() map[string]Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Stats, len(r.caches))
	for name, inst := range r.caches {
		out[name] = inst.Stats()
	}
	return out
}

// Close destroys every opened cache. Open fails afterwards. Safe to call
// more than once.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	for _, inst := range r.caches {
		inst.Destroy()
	}
	r.logger.Info("cache registry closed", "instances", len(r.caches))
}
