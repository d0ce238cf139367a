package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Blog metrics
	PostsPublishedTotal    prometheus.Counter
	CommentsSubmittedTotal prometheus.Counter
	AccessDeniedTotal      *prometheus.CounterVec
	ImageUploadBytes       prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogbreeze_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blogbreeze_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		PostsPublishedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "blogbreeze_posts_published_total",
				Help: "Number of draft to published transitions",
			},
		),
		CommentsSubmittedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "blogbreeze_comments_submitted_total",
				Help: "Number of accepted comments",
			},
		),
		AccessDeniedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogbreeze_access_denied_total",
				Help: "Access evaluator denials by reason",
			},
			[]string{"reason"},
		),
		ImageUploadBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "blogbreeze_image_upload_bytes",
				Help:    "Size of stored images in bytes",
				Buckets: prometheus.ExponentialBuckets(16*1024, 2, 10),
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PostsPublishedTotal,
		m.CommentsSubmittedTotal,
		m.AccessDeniedTotal,
		m.ImageUploadBytes,
	)

	return m
}

// New returns metrics on a fresh registry that also carries the Go and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewMetrics(registry)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware instruments HTTP requests. Routes are labelled by
// their mux template so ids and slugs do not explode label cardinality.
func (m *Metrics) HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// The helpers below accept a nil receiver so callers without metrics need no guards.

func (m *Metrics) PostPublished() {
	if m == nil {
		return
	}
	m.PostsPublishedTotal.Inc()
}

func (m *Metrics) CommentSubmitted() {
	if m == nil {
		return
	}
	m.CommentsSubmittedTotal.Inc()
}

func (m *Metrics) AccessDenied(reason string) {
	if m == nil {
		return
	}
	m.AccessDeniedTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) ImageUploaded(size int64) {
	if m == nil {
		return
	}
	m.ImageUploadBytes.Observe(float64(size))
}
