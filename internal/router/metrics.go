package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/udisondev/tilepath/internal/pathfinding"
)

type metrics struct {
	searches *prometheus.CounterVec
	duration *prometheus.HistogramVec
	expanded prometheus.Histogram
	busy     prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		// searches counts finished searches by termination reason
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tilepath_searches_total",
			Help: "Finished searches by termination reason",
		}, []string{"reason"}),

		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tilepath_search_duration_seconds",
			Help:    "Search wall time in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16), // 0.5ms to ~16s
		}, []string{"reason"}),

		expanded: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tilepath_search_expanded_nodes",
			Help:    "Nodes expanded per search",
			Buckets: prometheus.ExponentialBuckets(16, 4, 10),
		}),

		busy: f.NewGauge(prometheus.GaugeOpts{
			Name: "tilepath_workers_busy",
			Help: "Workers currently running a search",
		}),
	}
}

func (m *metrics) observe(res pathfinding.Result) {
	reason := res.Reason.String()
	m.searches.WithLabelValues(reason).Inc()
	m.duration.WithLabelValues(reason).Observe(res.Elapsed.Seconds())
	m.expanded.Observe(float64(res.Expanded))
}
