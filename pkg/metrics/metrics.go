// Package metrics exposes shell counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agentbrowser"

// Agent request outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Navigation kinds.
const (
	NavigateURL     = "url"
	NavigateSearch  = "search"
	NavigateBack    = "back"
	NavigateForward = "forward"
	NavigateReload  = "reload"
)

// Metrics holds the shell's collectors on a private registry so several
// shells can coexist in one process (tests).
//
// All Record methods are safe on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	sessionsCreated prometheus.Counter
	sessionsClosed  prometheus.Counter
	openSessions    prometheus.Gauge
	navigations     *prometheus.CounterVec
	agentRequests   *prometheus.CounterVec
	agentDuration   prometheus.Histogram
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Number of tabs opened.",
		}),
		sessionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Number of tabs closed.",
		}),
		openSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_open",
			Help:      "Number of tabs currently open.",
		}),
		navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Navigation intents by kind.",
		}, []string{"kind"}),
		agentRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_requests_total",
			Help:      "Agent generation requests by outcome.",
		}, []string{"outcome"}),
		agentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_request_duration_seconds",
			Help:      "Time spent waiting for a generated document.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		}),
	}
	m.registry.MustRegister(
		m.sessionsCreated,
		m.sessionsClosed,
		m.openSessions,
		m.navigations,
		m.agentRequests,
		m.agentDuration,
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSessionCreated counts a new tab. open is the tab count afterwards.
func (m *Metrics) RecordSessionCreated(open int) {
	if m == nil {
		return
	}
	m.sessionsCreated.Inc()
	m.openSessions.Set(float64(open))
}

// RecordSessionClosed counts a closed tab. open is the tab count afterwards.
func (m *Metrics) RecordSessionClosed(open int) {
	if m == nil {
		return
	}
	m.sessionsClosed.Inc()
	m.openSessions.Set(float64(open))
}

func (m *Metrics) RecordNavigation(kind string) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(kind).Inc()
}

// RecordAgentRequest counts one dispatch. Rejected requests never reached
// the generator and have no meaningful duration.
func (m *Metrics) RecordAgentRequest(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.agentRequests.WithLabelValues(outcome).Inc()
	if outcome != OutcomeRejected {
		m.agentDuration.Observe(elapsed.Seconds())
	}
}
