// Package metrics wraps the Prometheus collectors of the client and the dev API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixelsinav/pixelsinav/internal/form"
)

const namespace = "pixelsinav"

// Collector owns its own registry, so tests and binaries never share global state.
type Collector struct {
	registry *prometheus.Registry

	Submissions        *prometheus.CounterVec
	SubmissionDuration *prometheus.HistogramVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_submissions_total",
			Help:      "Form submissions by outcome (succeeded, validation, transport, server, conflict, auth).",
		}, []string{"form", "outcome"}),
		SubmissionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "form_submission_duration_seconds",
			Help:      "Round trip time of form submissions that reached the server.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"form"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route and status code.",
		}, []string{"method", "route", "status_code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(c.Submissions, c.SubmissionDuration, c.HTTPRequests, c.HTTPDuration)
	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WriteToTextfile dumps the registry for the node exporter textfile collector.
func (c *Collector) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// RecordSubmission counts one resolved submission.
func (c *Collector) RecordSubmission(formName string, res form.Result) {
	outcome := "succeeded"
	if res.State == form.Failed && res.Err != nil {
		outcome = string(res.Err.Kind)
	}
	c.Submissions.WithLabelValues(formName, outcome).Inc()
	if res.Elapsed > 0 {
		c.SubmissionDuration.WithLabelValues(formName).Observe(res.Elapsed.Seconds())
	}
}

// Observe records every submission of s.
func (c *Collector) Observe(s *form.Session) {
	name := s.Name()
	s.OnResolve(func(res form.Result) { c.RecordSubmission(name, res) })
}

// Middleware records request counts and latency keyed by the matched chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
