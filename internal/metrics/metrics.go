// Package metrics registers the connector's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery outcomes.
const (
	OutcomeDelivered    = "delivered"
	OutcomeDropped      = "dropped"
	OutcomeUnauthorized = "unauthorized"
	OutcomeInvalid      = "invalid"
	OutcomeFailed       = "failed"
)

var (
	WebhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdlc_webhook_deliveries_total",
			Help: "Webhook deliveries by system, event header and outcome",
		},
		[]string{"system", "event", "outcome"},
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sdlc_extraction_duration_seconds",
			Help:    "Time spent parsing and extracting a payload",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"system"},
	)

	SinkDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sdlc_sink_duration_seconds",
			Help:    "Duration of envelope delivery to the sink",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink"},
	)

	SinkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdlc_sink_failures_total",
			Help: "Envelope deliveries the sink rejected",
		},
		[]string{"sink"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sdlc_forward_circuit_state",
			Help: "Forward sink circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordDelivery counts one webhook delivery.
func RecordDelivery(system, event, outcome string) {
	WebhookDeliveries.WithLabelValues(system, event, outcome).Inc()
}

// RecordExtraction observes extraction latency.
func RecordExtraction(system string, duration time.Duration) {
	ExtractionDuration.WithLabelValues(system).Observe(duration.Seconds())
}

// RecordSink observes a sink call, counting it as a failure when err != nil.
func RecordSink(sink string, duration time.Duration, err error) {
	SinkDuration.WithLabelValues(sink).Observe(duration.Seconds())
	if err != nil {
		SinkFailures.WithLabelValues(sink).Inc()
	}
}
