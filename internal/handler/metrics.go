package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	renderEventsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Subsystem: "kafka_consumer",
			Name:      "render_events_processed_total",
			Help:      "Total number of successfully applied render events",
		},
	)

	renderEventsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Subsystem: "kafka_consumer",
			Name:      "render_events_failed_total",
			Help:      "Total number of render events that failed to apply",
		},
	)

	renderEventsDLQ = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Subsystem: "kafka_consumer",
			Name:      "render_events_dlq_total",
			Help:      "Total number of render events written to DLQ",
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		renderEventsProcessed,
		renderEventsFailed,
		renderEventsDLQ,
	)
}
