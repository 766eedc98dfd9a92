// Package stash provides the in-process cache used for entity records,
// dashboard aggregates, and reference data.
//
// # Overview
//
// A Cache holds string-keyed entries up to a fixed capacity. Each entry
// lives for a TTL measured from when it was set; reading an entry never
// extends its lifetime. When the cache is full, Set evicts one entry chosen
// by the cache's eviction policy before inserting.
//
// # Basic Usage
//
//	cache := stash.New[*Animal](
//		stash.WithCapacity(500),
//		stash.WithTTL(10*time.Minute),
//	)
//	defer cache.Destroy()
//
//	cache.Set("animal:42", animal)
//
//	if a, ok := cache.Get("animal:42"); ok {
//		fmt.Println(a.Tag)
//	}
//
//	// After a write, drop every cached query that mentions the entity.
//	cache.Invalidate("animal:")
//
// # Eviction Policies
//
// Three policies pick the entry to evict when the cache is full:
//
//	stash.LRU  // least recently read (default)
//	stash.LFU  // fewest reads
//	stash.FIFO // oldest by creation
//
// Ties go to the entry inserted first. Get counts as a read; Has does not,
// so existence checks never change which entry gets evicted. Replacing a
// key with Set resets its read statistics but keeps its insertion position.
//
// # Expiration
//
// Expired entries are removed lazily by Get and Has, and proactively by a
// background sweep that runs every SweepInterval. Len counts entries that
// have expired but have not been removed yet. Destroy stops the sweep.
//
// # Read-Through
//
// Fetch combines Get, a load on miss, and Set. Concurrent misses on the
// same key share one load:
//
//	herd, err := cache.Fetch(ctx, stash.Key("herds", params), 0, func(ctx context.Context) (*Herd, error) {
//		return db.Herd(ctx, params)
//	})
//
// # Named Instances
//
// A Registry opens independently configured caches by name. Build one at
// startup and pass it where caches are needed:
//
//	reg, err := stash.NewRegistry(stash.DefaultConfig(), stash.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer reg.Close()
//
//	dashboard, err := stash.Open[*Summary](reg, stash.InstanceDashboard)
//
// Configurations can be loaded from YAML with LoadConfig, and NewCollector
// exports every opened cache's statistics to Prometheus.
//
// # Statistics
//
// Stats.HitRate is the number of entries read at least once divided by the
// total number of reads across live entries. It is a coarse measure of how
// evenly reads spread over entries, not a hits/requests ratio; use
// Stats.RequestHitRate for the latter.
//
// # Thread Safety
//
// All Cache and Registry methods are safe for concurrent use. Each cache
// guards its entries with a single mutex held for the whole operation,
// including eviction and sweep scans.
package stash
