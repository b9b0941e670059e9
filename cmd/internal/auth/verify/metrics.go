package verify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for credential verification.
var (
	// verifyDuration tracks end-to-end verification latency, dominated by
	// the deliberately slow key derivation.
	verifyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ward_verify_duration_seconds",
		Help:    "Histogram of credential verification latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// verifications counts verification calls by internal outcome tag.
	// Labels carry internal diagnostics only; they are never surfaced to clients.
	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ward_verifications_total",
		Help: "Total number of credential verifications by outcome",
	}, []string{"outcome"})
)

// observeVerification records metrics for a completed verification.
func observeVerification(outcome string, d time.Duration) {
	verifyDuration.Observe(d.Seconds())
	verifications.WithLabelValues(outcome).Inc()
}
