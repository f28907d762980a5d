package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/listbot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors fed by the router lifecycle hooks.
type Metrics struct {
	registry *prometheus.Registry

	Transforms       *prometheus.CounterVec
	TransformSeconds *prometheus.HistogramVec
	InputBytes       prometheus.Histogram
	ModeChanges      *prometheus.CounterVec
	DeliveryErrors   *prometheus.CounterVec
}

// NewMetrics creates the collectors on a dedicated registry, together with the Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Transforms: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listbot_transforms_total",
				Help: "Total number of list transformations, by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		TransformSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "listbot_transform_duration_seconds",
				Help:    "Duration of a message round trip through the router",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"mode"},
		),
		InputBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "listbot_transform_input_bytes",
				Help:    "Size of the texts handed to the engine",
				Buckets: prometheus.ExponentialBuckets(16, 4, 8),
			},
		),
		ModeChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listbot_mode_changes_total",
				Help: "Total number of mode switches, by target mode",
			},
			[]string{"to"},
		),
		DeliveryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listbot_delivery_errors_total",
				Help: "Reply parts the platform adapter could not deliver",
			},
			[]string{"asset"},
		),
	}
	m.registry.MustRegister(
		m.Transforms,
		m.TransformSeconds,
		m.InputBytes,
		m.ModeChanges,
		m.DeliveryErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks recording into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModeChange: func(_ context.Context, e *domain.ModeEvent) {
			m.ModeChanges.WithLabelValues(modeLabel(e.To)).Inc()
		},
		OnTransform: func(_ context.Context, e *domain.TransformEvent) {
			outcome := "empty"
			if e.Found {
				outcome = "found"
			}
			mode := modeLabel(e.Mode)
			m.Transforms.WithLabelValues(mode, outcome).Inc()
			m.TransformSeconds.WithLabelValues(mode).Observe(e.Duration.Seconds())
			m.InputBytes.Observe(float64(e.InputSize))
		},
		OnDeliveryError: func(_ context.Context, e *domain.DeliveryEvent) {
			asset := e.Asset
			if asset == "" {
				asset = "text"
			}
			m.DeliveryErrors.WithLabelValues(asset).Inc()
		},
	}
}

func modeLabel(m domain.Mode) string {
	if m == domain.ModeNone {
		return "none"
	}
	return string(m)
}
