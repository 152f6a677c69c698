// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus export of ring occupancy and eviction counts.

package control

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/ringbuf/api"
)

// StatsSource is anything that can report ring stats.
type StatsSource interface {
	Stats() api.Stats
}

// RingCollector reads Stats from its source on every scrape.
// The source must be safe to call from the scraping goroutine.
type RingCollector struct {
	src StatsSource

	items    *prometheus.Desc
	capacity *prometheus.Desc
	size     *prometheus.Desc
	evicted  *prometheus.Desc
}

var _ prometheus.Collector = (*RingCollector)(nil)

// NewRingCollector creates a collector labelled ring=name.
func NewRingCollector(namespace, name string, src StatsSource) *RingCollector {
	labels := prometheus.Labels{"ring": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "ring", metric), help, nil, labels)
	}
	return &RingCollector{
		src:      src,
		items:    desc("items", "Bytes currently readable from the ring"),
		capacity: desc("capacity_bytes", "Usable ring capacity (size - 1)"),
		size:     desc("size_bytes", "Power-of-two size of the backing storage"),
		evicted:  desc("evicted_total", "Bytes dropped by overwrite-on-full since the last reset"),
	}
}

// Describe implements prometheus.Collector.
func (c *RingCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.items
	ch <- c.capacity
	ch <- c.size
	ch <- c.evicted
}

// Collect implements prometheus.Collector.
func (c *RingCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.items, prometheus.GaugeValue, float64(s.Len))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Cap))
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.evicted, prometheus.CounterValue, float64(s.Evicted))
}
