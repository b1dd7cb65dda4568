package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics counts lifecycle activity. All methods are nil-safe.
type WorkflowMetrics struct {
	transitionsTotal   *prometheus.CounterVec
	interceptionsTotal *prometheus.CounterVec
	completionsTotal   *prometheus.CounterVec
	persistFailures    *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
}

func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	m := &WorkflowMetrics{
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ams",
			Subsystem: "appointments",
			Name:      "status_transitions_total",
			Help:      "Status change requests by source, target and result",
		}, []string{"from", "to", "result"}),
		interceptionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ams",
			Subsystem: "appointments",
			Name:      "advance_routes_total",
			Help:      "Advance actions by route taken",
		}, []string{"route"}),
		completionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ams",
			Subsystem: "completion",
			Name:      "submissions_total",
			Help:      "Completion record submissions by mode and result",
		}, []string{"mode", "result"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ams",
			Subsystem: "persistence",
			Name:      "failures_total",
			Help:      "Failures reported by the persistence collaborator",
		}, []string{"op"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ams",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.transitionsTotal,
		m.interceptionsTotal,
		m.completionsTotal,
		m.persistFailures,
		m.requestLatency,
	)
	return m
}

func (m *WorkflowMetrics) ObserveTransition(from, to, result string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(from, to, result).Inc()
}

func (m *WorkflowMetrics) ObserveRoute(route string) {
	if m == nil {
		return
	}
	m.interceptionsTotal.WithLabelValues(route).Inc()
}

func (m *WorkflowMetrics) ObserveCompletion(mode, result string) {
	if m == nil {
		return
	}
	m.completionsTotal.WithLabelValues(mode, result).Inc()
}

func (m *WorkflowMetrics) ObservePersistFailure(op string) {
	if m == nil {
		return
	}
	m.persistFailures.WithLabelValues(op).Inc()
}

func (m *WorkflowMetrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
