package stash

import "time"

type entry[V any] struct {
	value        V
	createdAt    time.Time
	ttl          time.Duration
	accessCount  int64
	lastAccessAt time.Time
}

func newEntry[V any](value V, ttl time.Duration, now time.Time) *entry[V] {
	return &entry[V]{
		value:        value,
		createdAt:    now,
		ttl:          ttl,
		lastAccessAt: now,
	}
}

// isExpired measures age from creation. Reads never extend the window.
func (e *entry[V]) isExpired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

func (e *entry[V]) touch(now time.Time) {
	e.accessCount++
	e.lastAccessAt = now
}

func (e *entry[V]) meta() meta {
	return meta{
		createdAt:    e.createdAt,
		lastAccessAt: e.lastAccessAt,
		accessCount:  e.accessCount,
	}
}
