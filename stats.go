package stash

import "sync/atomic"

// counters holds cumulative event counts using atomic counters.
type counters struct {
	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	expirations atomic.Int64
}

func (c *counters) hit()    { c.hits.Add(1) }
func (c *counters) miss()   { c.misses.Add(1) }
func (c *counters) evict()  { c.evictions.Add(1) }
func (c *counters) expire() { c.expirations.Add(1) }

// Stats is a point-in-time view of a cache.
type Stats struct {
	// Size is the entry count, including expired entries not yet removed.
	Size int
	// Capacity is the maximum entry count.
	Capacity int
	// Policy is the eviction policy.
	Policy Policy
	// HitRate is the number of entries read at least once divided by the
	// total number of reads across all live entries. It is NOT the usual
	// hits/(hits+misses) ratio; see RequestHitRate for that. 0 when no
	// entry has been read.
	HitRate float64

	// Hits counts successful Get calls since creation.
	Hits int64
	// Misses counts Get calls that found nothing or an expired entry.
	Misses int64
	// Evictions counts entries removed to make room.
	Evictions int64
	// Expirations counts entries removed because their TTL had passed.
	Expirations int64
}

// RequestHitRate returns Hits/(Hits+Misses), or 0 before any Get.
func (s Stats) RequestHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func entryHitRate(accessed, totalAccesses int64) float64 {
	if totalAccesses == 0 {
		return 0
	}
	return float64(accessed) / float64(totalAccesses)
}
