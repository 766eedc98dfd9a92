package stash

import (
	"context"
	"time"

	"github.com/jmgilman/go/errors"
)

// LoadFunc loads the authoritative value for a cache miss.
type LoadFunc[V any] func(ctx context.Context) (V, error)

// Fetch returns the cached value for key, or calls load on a miss and caches
// its result for ttl (the default TTL when ttl <= 0). Concurrent misses for
// the same key share a single load.
//
// The shared load runs without the caller's cancellation, so one caller
// giving up neither aborts the load nor fails the others waiting on it. A
// canceled caller returns its context error right away.
//
// A load error is returned wrapped with the key and nothing is cached. The
// wrapper keeps the loader's error code, and errors.Is and errors.As still
// see the loader's error.
func (c *Cache[V]) Fetch(ctx context.Context, key string, ttl time.Duration, load LoadFunc[V]) (V, error) {
	var zero V

	if v, ok := c.Get(key); ok {
		return v, nil
	}
	if err := ctx.Err(); err != nil {
		return zero, loadError(err, key)
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.loading.DoChan(key, func() (any, error) {
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.SetWithTTL(key, v, ttl)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, loadError(ctx.Err(), key)
	case res := <-ch:
		if res.Err != nil {
			return zero, loadError(res.Err, key)
		}
		v, _ := res.Val.(V)
		return v, nil
	}
}

func loadError(err error, key string) error {
	return errors.WrapWithContext(err, errors.GetCode(err), "cache load failed", map[string]any{
		"cache_key": key,
	})
}
