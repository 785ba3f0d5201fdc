// Package metrics owns the console's prometheus collectors.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "console"

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	connectOutcomes    *prometheus.CounterVec
	graphRequests      *prometheus.CounterVec
	creditsRequests    *prometheus.CounterVec
	sideEffectFailures *prometheus.CounterVec
}

// New registers the collectors on reg. Passing nil uses a fresh registry,
// which keeps tests independent of the global default registry.
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		gatherer: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests processed, by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		connectOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messenger_connect_total",
			Help:      "Messenger connect flow results by step and outcome code.",
		}, []string{"step", "outcome"}),
		graphRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_api_requests_total",
			Help:      "Facebook Graph API calls by operation and result.",
		}, []string{"operation", "result"}),
		creditsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_backend_requests_total",
			Help:      "Credits backend admin calls by operation and result.",
		}, []string{"operation", "result"}),
		sideEffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "side_effect_failures_total",
			Help:      "Best-effort side effects that failed after a committed change.",
		}, []string{"effect"}),
	}

	for _, c := range []prometheus.Collector{
		m.httpRequests, m.httpDuration, m.connectOutcomes,
		m.graphRequests, m.creditsRequests, m.sideEffectFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ConnectOutcome counts one initiate/callback/disconnect result; outcome is
// "success" or a connect error code.
func (m *Metrics) ConnectOutcome(step, outcome string) {
	if m == nil {
		return
	}
	m.connectOutcomes.WithLabelValues(step, outcome).Inc()
}

func (m *Metrics) GraphRequest(operation string, err error) {
	if m == nil {
		return
	}
	m.graphRequests.WithLabelValues(operation, result(err)).Inc()
}

func (m *Metrics) CreditsRequest(operation string, err error) {
	if m == nil {
		return
	}
	m.creditsRequests.WithLabelValues(operation, result(err)).Inc()
}

func (m *Metrics) SideEffectFailed(effect string) {
	if m == nil {
		return
	}
	m.sideEffectFailures.WithLabelValues(effect).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
