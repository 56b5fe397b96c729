// Package metrics exposes Prometheus collectors for the HTTP layer and the
// hostel workflows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hostelhub"

// Metrics groups every collector the service records. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	gatherer prometheus.Gatherer

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	assignments     *prometheus.CounterVec
	requestsFiled   *prometheus.CounterVec
	noticeEvents    *prometheus.CounterVec
	digestRuns      *prometheus.CounterVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_assignments_total",
			Help:      "Room assignment attempts by outcome.",
		}, []string{"outcome"}),
		requestsFiled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_filed_total",
			Help:      "Leave and maintenance requests filed by students.",
		}, []string{"kind"}),
		noticeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notice_events_total",
			Help:      "Notice events pushed to websocket subscribers.",
		}, []string{"type"}),
		digestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digest_runs_total",
			Help:      "Daily digest runs by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.requests,
		m.requestDuration,
		m.rateLimited,
		m.assignments,
		m.requestsFiled,
		m.noticeEvents,
		m.digestRuns,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RateLimited counts a rejected request
func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// Assignment counts a room assignment attempt
func (m *Metrics) Assignment(outcome string) {
	if m == nil {
		return
	}
	m.assignments.WithLabelValues(outcome).Inc()
}

// RequestFiled counts a new leave or maintenance request
func (m *Metrics) RequestFiled(kind string) {
	if m == nil {
		return
	}
	m.requestsFiled.WithLabelValues(kind).Inc()
}

// NoticeEvent counts a broadcast notice event
func (m *Metrics) NoticeEvent(eventType string) {
	if m == nil {
		return
	}
	m.noticeEvents.WithLabelValues(eventType).Inc()
}

// DigestRun counts a digest job execution
func (m *Metrics) DigestRun(outcome string) {
	if m == nil {
		return
	}
	m.digestRuns.WithLabelValues(outcome).Inc()
}
