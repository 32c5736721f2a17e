package ui

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	defaultMetricsOnce sync.Once
	defaultMetrics     *Metrics
	defaultMetricsErr  error
)

// Metrics counts the work done by reconciliation.
type Metrics struct {
	Ticks        prometheus.Counter
	Passes       prometheus.Counter
	Renders      prometheus.Counter
	Patches      *prometheus.CounterVec
	Mounts       prometheus.Counter
	Unmounts     prometheus.Counter
	PassDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "entityui",
			Name:      "ticks_total",
			Help:      "Frame loop ticks observed by scenes.",
		}),
		Passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "entityui",
			Name:      "passes_total",
			Help:      "Reconciliation passes run.",
		}),
		Renders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "entityui",
			Name:      "renders_total",
			Help:      "Entity renders following a committed update.",
		}),
		Patches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entityui",
			Name:      "patches_total",
			Help:      "Patches applied to the live tree, by operation.",
		}, []string{"op"}),
		Mounts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "entityui",
			Name:      "mounts_total",
			Help:      "Entities mounted.",
		}),
		Unmounts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "entityui",
			Name:      "unmounts_total",
			Help:      "Entities unmounted.",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "entityui",
			Name:      "pass_duration_seconds",
			Help:      "Duration of reconciliation passes.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Ticks, m.Passes, m.Renders, m.Patches, m.Mounts, m.Unmounts, m.PassDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func nopMetrics() *Metrics {
	m, _ := NewMetrics(nil)
	return m
}

// DefaultMetrics returns the collectors registered on the default prometheus
// registry. They are created once per process and shared by every scene.
func DefaultMetrics() (*Metrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics, defaultMetricsErr
}
