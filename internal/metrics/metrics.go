package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OfferResolveDuration tracks the latency of offer resolution
	OfferResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "offer_resolve_duration_seconds",
			Help: "Duration of offer resolution requests in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
			},
		},
		[]string{"result"}, // offer, no_offer or error
	)

	// OfferConsumeTotal counts quota consumption attempts
	OfferConsumeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offer_consume_total",
			Help: "Number of offer quota consumption attempts",
		},
		[]string{"status"}, // success, sold_out, not_found or error
	)
)

// RecordOfferResolveDuration records the duration of an offer resolution
func RecordOfferResolveDuration(result string, duration float64) {
	OfferResolveDuration.WithLabelValues(result).Observe(duration)
}

// RecordOfferConsume counts one consumption attempt
func RecordOfferConsume(status string) {
	OfferConsumeTotal.WithLabelValues(status).Inc()
}
