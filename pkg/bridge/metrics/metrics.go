package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Turn outcomes recorded per transcription event.
const (
	TurnOK         = "ok"
	TurnModelError = "model_error"
)

// Metrics holds the bridge's Prometheus instruments on a private registry.
// All record helpers are safe on a nil receiver so tests can pass nil.
type Metrics struct {
	registry *prometheus.Registry

	CallsActive prometheus.Gauge
	CallsTotal  prometheus.Counter

	TurnsTotal   *prometheus.CounterVec
	TurnDuration prometheus.Histogram

	DirectivesTotal     *prometheus.CounterVec
	NotifyFailuresTotal *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "mspc_voice"
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		CallsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "calls_active",
			Help:      "Number of relay WebSocket connections currently open",
		}),
		CallsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Total relay connections accepted",
		}),
		TurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Conversation turns processed, by outcome",
		}, []string{"outcome"}),
		TurnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Wall time of one transcription turn including the model call",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		DirectivesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directives_total",
			Help:      "Action directives dispatched, by kind",
		}, []string{"kind"}),
		NotifyFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_failures_total",
			Help:      "Failed carrier side effects, by kind",
		}, []string{"kind"}),
	}

	registry.MustRegister(
		m.CallsActive,
		m.CallsTotal,
		m.TurnsTotal,
		m.TurnDuration,
		m.DirectivesTotal,
		m.NotifyFailuresTotal,
	)
	return m
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CallStarted() {
	if m == nil {
		return
	}
	m.CallsTotal.Inc()
	m.CallsActive.Inc()
}

func (m *Metrics) CallEnded() {
	if m == nil {
		return
	}
	m.CallsActive.Dec()
}

func (m *Metrics) ObserveTurn(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.TurnsTotal.WithLabelValues(outcome).Inc()
	m.TurnDuration.Observe(d.Seconds())
}

func (m *Metrics) DirectiveDispatched(kind string) {
	if m == nil {
		return
	}
	m.DirectivesTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) NotifyFailed(kind string) {
	if m == nil {
		return
	}
	m.NotifyFailuresTotal.WithLabelValues(kind).Inc()
}
