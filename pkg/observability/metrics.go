package observability

import (
	"context"

	"github.com/aretw0/vantage/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for transform cache builds.
type Metrics struct {
	Builds      prometheus.Counter
	Duration    prometheus.Histogram
	Reachable   prometheus.Gauge
	Unreachable *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer skips registration.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Builds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vantage_builds_total",
			Help: "Total number of transform cache builds",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vantage_build_duration_seconds",
			Help:    "Duration of transform cache builds",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		Reachable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vantage_reachable_entities",
			Help: "Reachable entities in the last built cache",
		}),
		Unreachable: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vantage_unreachable_total",
				Help: "Unreachable entities reported by builds",
			},
			[]string{"reason", "direction"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.Builds, m.Duration, m.Reachable, m.Unreachable} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Hooks records build events into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBuildDone: func(_ context.Context, e *domain.BuildEvent) {
			m.Builds.Inc()
			m.Duration.Observe(e.Duration.Seconds())
			m.Reachable.Set(float64(e.Reachable))
		},
		OnUnreachable: func(_ context.Context, e *domain.UnreachableEvent) {
			m.Unreachable.WithLabelValues(e.Reason.Tag(), string(e.Direction)).Inc()
		},
	}
}
