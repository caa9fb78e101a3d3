package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the scheduling service.
type Metrics struct {
	// HTTP requests by method, route pattern, and status class
	HTTPRequests *prometheus.CounterVec

	// HTTP request latency by route pattern
	HTTPDuration *prometheus.HistogramVec

	// Update outcomes: applied, noop, conflict
	UpdateOutcome *prometheus.CounterVec
}

// New creates a Metrics instance with all collectors registered on the
// default registry.
func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tzschedule_http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tzschedule_http_request_duration_seconds",
			Help:    "HTTP request duration by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),

		UpdateOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tzschedule_event_update_outcomes_total",
			Help: "Event update outcomes (applied, noop, conflict)",
		}, []string{"outcome"}),
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, status).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
	}
}

// IncrementUpdateOutcome records the outcome of one event update call.
func (m *Metrics) IncrementUpdateOutcome(outcome string) {
	if m != nil {
		m.UpdateOutcome.WithLabelValues(outcome).Inc()
	}
}
