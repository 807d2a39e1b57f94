// Package upstream holds shared instrumentation for outbound provider calls.
//
// The collectors here mirror the HTTP-side metrics in internal/http/middleware:
// bounded label cardinality (provider, endpoint, status), default latency
// buckets, and registration at init. Both provider clients (openai, news)
// report through Observe so dashboards see a single upstream surface.
package upstream

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// reqs counts upstream calls by provider, endpoint, and status code.
	// Transport failures (no response) are recorded with status "0".
	reqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream provider requests.",
		},
		[]string{"provider", "endpoint", "status"},
	)

	// lat records upstream call duration in seconds by provider and endpoint.
	lat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream provider requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "endpoint"},
	)
)

func init() {
	prometheus.MustRegister(reqs, lat)
}

// Observe records one completed upstream call. status is the HTTP status code
// of the upstream response, or 0 when the call failed before a response.
func Observe(provider, endpoint string, status int, elapsed time.Duration) {
	reqs.WithLabelValues(provider, endpoint, strconv.Itoa(status)).Inc()
	lat.WithLabelValues(provider, endpoint).Observe(elapsed.Seconds())
}
