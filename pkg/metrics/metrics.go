// Package metrics exposes freepool statistics as Prometheus metrics.
//
// A PoolCollector wraps one pool's Stats snapshot function and implements
// the prometheus.Collector contract, so callers decide which registry (if
// any) to attach it to; the package registers nothing globally.
//
//	pool := freepool.New(freepool.Config[*Buffer]{New: newBuffer})
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(metrics.NewPoolCollector("buffers", pool.Stats))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ajitpratap0/freepool/pkg/freepool"
)

// PoolCollector exports a pool's counters. All metrics carry a "pool" label
// so several pools can share one registry.
type PoolCollector struct {
	name  string
	stats func() freepool.Stats

	gets      *prometheus.Desc
	localHits *prometheus.Desc
	steals    *prometheus.Desc
	empties   *prometheus.Desc
	puts      *prometheus.Desc
	drops     *prometheus.Desc
	evictions *prometheus.Desc
}

// NewPoolCollector creates a collector over the given Stats snapshot
// function. The name parameter becomes the "pool" label value.
func NewPoolCollector(name string, stats func() freepool.Stats) *PoolCollector {
	labels := prometheus.Labels{"pool": name}
	return &PoolCollector{
		name:  name,
		stats: stats,
		gets: prometheus.NewDesc("freepool_gets_total",
			"Total Get calls.", nil, labels),
		localHits: prometheus.NewDesc("freepool_local_hits_total",
			"Gets satisfied from the caller's own shard.", nil, labels),
		steals: prometheus.NewDesc("freepool_steals_total",
			"Gets satisfied by a randomized probe into another shard.", nil, labels),
		empties: prometheus.NewDesc("freepool_empties_total",
			"Gets that found no recycled instance.", nil, labels),
		puts: prometheus.NewDesc("freepool_puts_total",
			"Total Put calls.", nil, labels),
		drops: prometheus.NewDesc("freepool_drops_total",
			"Puts discarded because the shard was full.", nil, labels),
		evictions: prometheus.NewDesc("freepool_evictions_total",
			"Oldest entries evicted to admit newer ones.", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.gets
	ch <- c.localHits
	ch <- c.steals
	ch <- c.empties
	ch <- c.puts
	ch <- c.drops
	ch <- c.evictions
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.gets, prometheus.CounterValue, float64(s.Gets))
	ch <- prometheus.MustNewConstMetric(c.localHits, prometheus.CounterValue, float64(s.LocalHits))
	ch <- prometheus.MustNewConstMetric(c.steals, prometheus.CounterValue, float64(s.Steals))
	ch <- prometheus.MustNewConstMetric(c.empties, prometheus.CounterValue, float64(s.Empties))
	ch <- prometheus.MustNewConstMetric(c.puts, prometheus.CounterValue, float64(s.Puts))
	ch <- prometheus.MustNewConstMetric(c.drops, prometheus.CounterValue, float64(s.Drops))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
}
