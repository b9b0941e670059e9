package app

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ward_http_requests_total",
		Help: "HTTP requests processed, by method, path and status.",
	}, []string{"method", "path", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ward_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	httpInflight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ward_http_inflight_requests",
		Help: "Requests currently being served.",
	})
)

// knownPaths is the fixed route set. Anything else is collapsed into
// one label value so unmatched probes cannot blow up cardinality.
var knownPaths = map[string]struct{}{
	"/register": {},
	"/login":    {},
	"/logout":   {},
	"/me":       {},
	"/healthz":  {},
	"/readyz":   {},
	"/metrics":  {},
}

func metricPath(path string) string {
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return "other"
}

func observeRequest(method, path string, status int, d time.Duration) {
	p := metricPath(path)
	httpRequests.WithLabelValues(method, p, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, p).Observe(d.Seconds())
}
