package stash

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports the statistics of every opened cache in a Registry.
// Register it once:
//
//	prometheus.MustRegister(stash.NewCollector("beefsync", registry))
type Collector struct {
	registry *Registry

	entries     *prometheus.Desc
	capacity    *prometheus.Desc
	hitRate     *prometheus.Desc
	hits        *prometheus.Desc
	misses      *prometheus.Desc
	evictions   *prometheus.Desc
	expirations *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for r with metric names under namespace.
func NewCollector(namespace string, r *Registry) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", name),
			help,
			[]string{"instance"},
			nil,
		)
	}

	return &Collector{
		registry:    r,
		entries:     desc("entries", "Current number of entries, including expired entries not yet removed"),
		capacity:    desc("capacity", "Maximum number of entries"),
		hitRate:     desc("entry_hit_rate", "Entries read at least once divided by total reads of live entries"),
		hits:        desc("hits_total", "Total number of cache hits"),
		misses:      desc("misses_total", "Total number of cache misses"),
		evictions:   desc("evictions_total", "Total number of entries evicted to make room"),
		expirations: desc("expirations_total", "Total number of entries removed after their TTL"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.capacity
	ch <- c.hitRate
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.expirations
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, st := range c.registry.Stats() {
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(st.Size), name)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(st.Capacity), name)
		ch <- prometheus.MustNewConstMetric(c.hitRate, prometheus.GaugeValue, st.HitRate, name)
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(st.Hits), name)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(st.Misses), name)
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(st.Evictions), name)
		ch <- prometheus.MustNewConstMetric(c.expirations, prometheus.CounterValue, float64(st.Expirations), name)
	}
}
