package stash

import "time"

// Clock provides time operations for the cache.
// The default implementation uses time.Now().
//
// The clock drives entry timestamps and expiry checks only. The sweeper
// always ticks on wall time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
