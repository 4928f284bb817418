package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	remoteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userdir_remote_requests_total",
		Help: "Total number of remote corpus requests by operation and outcome.",
	}, []string{"op", "outcome"})

	remoteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "userdir_remote_request_duration_seconds",
		Help:    "Transport duration of remote corpus requests, before the latency floor.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "userdir_http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "status"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userdir_http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"path", "method", "status"})
)

// ObserveRemote records one remote call.
func ObserveRemote(op, outcome string, elapsed time.Duration) {
	remoteRequests.WithLabelValues(op, outcome).Inc()
	remoteDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Middleware records RED metrics keyed by the matched route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		httpDuration.WithLabelValues(path, r.Method, code).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(path, r.Method, code).Inc()
	})
}
