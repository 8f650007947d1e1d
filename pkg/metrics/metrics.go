// Package metrics provides the HTTP metrics of the catalog API and documents
// every metric the service exports. Cache metrics live in pkg/cache next to
// the code that records them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests tracks served requests
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPDuration tracks request latency
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"route", "method"},
	)
)

// Handler serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency per route template, so
// /products/{id} is one series regardless of id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := RouteName(r)
		HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// RouteName returns the matched mux path template, or "unmatched".
func RouteName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - catalog_cache_hits_total{operation} (Counter): Cache hits by read operation
//   - catalog_cache_misses_total{operation} (Counter): Cache misses by read operation
//   - catalog_cache_corrupt_total (Counter): Entries that failed to decode
//   - catalog_cache_invalidations_total{scope} (Counter): Invalidations (list, detail, stats)
//   - catalog_cache_errors_total{operation} (Counter): Backend errors (get, set, delete, scan, ping)
//   - catalog_cache_available (Gauge): 1 while the backend is healthy
//
// HTTP Metrics (pkg/metrics):
//   - catalog_http_requests_total{route, method, status} (Counter)
//   - catalog_http_request_duration_seconds{route, method} (Histogram)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate per operation
//   sum by (operation) (rate(catalog_cache_hits_total[5m])) /
//   (sum by (operation) (rate(catalog_cache_hits_total[5m])) + sum by (operation) (rate(catalog_cache_misses_total[5m])))
//
//   # P95 list latency
//   histogram_quantile(0.95, rate(catalog_http_request_duration_seconds_bucket{route="/api/v1/products"}[5m]))
//
//   # Server error rate
//   sum(rate(catalog_http_requests_total{status=~"5.."}[5m]))
