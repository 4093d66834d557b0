package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors exported by the service
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	priceLookups    *prometheus.CounterVec
	intents         *prometheus.CounterVec
	executions      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smart_wallet",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "smart_wallet",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		priceLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smart_wallet",
			Name:      "price_lookups_total",
			Help:      "Token price lookups by the source that answered.",
		}, []string{"source"}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smart_wallet",
			Name:      "intents_parsed_total",
			Help:      "Parsed intents by action and parser.",
		}, []string{"action", "parser"}),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smart_wallet",
			Name:      "executions_total",
			Help:      "Simulated executions by action and status.",
		}, []string{"action", "status"}),
	}

	reg.MustRegister(m.requests, m.requestDuration, m.priceLookups, m.intents, m.executions)
	return m
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(route, method, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, status).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(took.Seconds())
}

// PriceLookup records which source answered a price lookup
func (m *Metrics) PriceLookup(source string) {
	if m == nil {
		return
	}
	m.priceLookups.WithLabelValues(source).Inc()
}

// IntentParsed records a parsed intent
func (m *Metrics) IntentParsed(action, parser string) {
	if m == nil {
		return
	}
	m.intents.WithLabelValues(action, parser).Inc()
}

// Execution records a simulated execution
func (m *Metrics) Execution(action, status string) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(action, status).Inc()
}
