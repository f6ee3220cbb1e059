// Package metrics holds the Prometheus collectors exported by the gateways.
//
// All methods are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	queries       *prometheus.CounterVec
	fieldDuration *prometheus.HistogramVec
	fieldErrors   *prometheus.CounterVec
	upstream      *prometheus.CounterVec
}

// New registers the gateway collectors, plus the Go and process
// collectors, on a fresh registry. namespace prefixes every metric name.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_queries_total",
			Help:      "GraphQL operations executed, by outcome.",
		}, []string{"outcome"}),
		fieldDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graphql_field_duration_seconds",
			Help:      "Time spent resolving non-trivial fields.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type", "field"}),
		fieldErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_field_errors_total",
			Help:      "Field resolutions that returned an error.",
		}, []string{"type", "field"}),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the upstream REST service, by method and status class.",
		}, []string{"method", "code"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.queries, m.fieldDuration, m.fieldErrors, m.upstream,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveQuery(failed bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.queries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveField(typeName, fieldName string, d time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.fieldDuration.WithLabelValues(typeName, fieldName).Observe(d.Seconds())
	if failed {
		m.fieldErrors.WithLabelValues(typeName, fieldName).Inc()
	}
}

// ObserveUpstream counts one upstream request. status 0 means the request
// never produced a response.
func (m *Metrics) ObserveUpstream(method string, status int) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status/100) + "xx"
	}
	m.upstream.WithLabelValues(method, code).Inc()
}
