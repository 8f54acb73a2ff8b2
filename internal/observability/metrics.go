package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	operationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitlover",
		Subsystem: "routines",
		Name:      "operations_total",
		Help:      "Routine registry and composition operations by outcome.",
	}, []string{"operation", "outcome"})

	operationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitlover",
		Subsystem: "routines",
		Name:      "operation_duration_seconds",
		Help:      "Latency of routine registry and composition operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	lastMutationGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitlover",
		Subsystem: "routines",
		Name:      "last_mutation_timestamp_seconds",
		Help:      "Unix timestamp of the most recent committed routine mutation.",
	})

	eventPublishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitlover",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Routine events that could not be delivered after commit.",
	}, []string{"event_type"})
)

func init() {
	prometheus.MustRegister(operationsTotal, operationDuration, lastMutationGauge, eventPublishFailures)
}

// RecordOperation counts one finished operation and observes its latency.
func RecordOperation(operation, outcome string, duration time.Duration) {
	operationsTotal.WithLabelValues(operation, outcome).Inc()
	operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRoutineMutation updates the mutation watermark gauge.
func RecordRoutineMutation(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastMutationGauge.Set(float64(ts.Unix()))
}

func RecordEventPublishFailure(eventType string) {
	eventPublishFailures.WithLabelValues(eventType).Inc()
}
