package stash

import (
	"strconv"
	"testing"
)

func BenchmarkCache_Get(b *testing.B) {
	cache := New[int](WithCapacity(1000))
	defer cache.Destroy()

	keys := make([]string, 100)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
		cache.Set(keys[i], i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(keys[i%100])
	}
}

func BenchmarkCache_Set(b *testing.B) {
	cache := New[int](WithCapacity(b.N + 1))
	defer cache.Destroy()

	keys := make([]string, b.N)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Set(keys[i], i)
	}
}

// Eviction scans every entry, so this is linear in capacity.
func BenchmarkCache_SetWithEviction(b *testing.B) {
	cache := New[int](WithCapacity(100))
	defer cache.Destroy()

	keys := make([]string, b.N)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Set(keys[i], i)
	}
}

func BenchmarkCache_Parallel(b *testing.B) {
	cache := New[int](WithCapacity(1000))
	defer cache.Destroy()

	keys := make([]string, 100)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
		cache.Set(keys[i], i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%2 == 0 {
				cache.Get(keys[i%100])
			} else {
				cache.Set(keys[i%100], i)
			}
			i++
		}
	})
}

func BenchmarkCache_Policies(b *testing.B) {
	policies := []struct {
		name   string
		policy Policy
	}{
		{"LRU", LRU},
		{"LFU", LFU},
		{"FIFO", FIFO},
	}

	for _, tc := range policies {
		b.Run(tc.name, func(b *testing.B) {
			cache := New[int](
				WithCapacity(100),
				WithPolicy(tc.policy),
			)
			defer cache.Destroy()

			keys := make([]string, 200)
			for i := range keys {
				keys[i] = strconv.Itoa(i)
			}

			for i := 0; i < 100; i++ {
				cache.Set(keys[i], i)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				key := keys[i%200]
				if _, ok := cache.Get(key); !ok {
					cache.Set(key, i)
				}
			}
		})
	}
}

func BenchmarkCache_Invalidate(b *testing.B) {
	cache := New[int](WithCapacity(1000))
	defer cache.Destroy()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		for j := 0; j < 100; j++ {
			cache.Set("animals:page="+strconv.Itoa(j), j)
		}
		b.StartTimer()
		cache.Invalidate("animals:")
	}
}
