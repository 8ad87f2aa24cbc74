package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects HTTP request metrics via the prometheus client.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "audittrail_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "audittrail_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "audittrail_http_active_requests",
			Help: "Number of active HTTP requests.",
		}),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.activeRequests)
	return m
}

func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.activeRequests.Inc()

			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			m.activeRequests.Dec()
			m.requestsTotal.WithLabelValues(r.Method, strconv.Itoa(rw.status)).Inc()
			m.requestDuration.WithLabelValues(r.Method, normalizeMetricsPath(r.URL.Path)).
				Observe(time.Since(start).Seconds())
		})
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// normalizeMetricsPath replaces UUIDs and numeric IDs with {id} to keep the
// path label cardinality bounded.
func normalizeMetricsPath(path string) string {
	parts := make([]byte, 0, len(path))
	i := 0
	for i < len(path) {
		if path[i] == '/' {
			parts = append(parts, '/')
			i++
			j := i
			for j < len(path) && path[j] != '/' {
				j++
			}
			segment := path[i:j]
			if isIDSegment(segment) {
				parts = append(parts, "{id}"...)
			} else {
				parts = append(parts, segment...)
			}
			i = j
		} else {
			parts = append(parts, path[i])
			i++
		}
	}
	return string(parts)
}

func isIDSegment(s string) bool {
	if len(s) == 0 {
		return false
	}
	// UUID pattern: 8-4-4-4-12 hex chars
	if len(s) == 36 && s[8] == '-' && s[13] == '-' && s[18] == '-' && s[23] == '-' {
		return true
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
