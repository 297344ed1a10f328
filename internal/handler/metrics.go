package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_store",
		Subsystem: "kafka_consumer",
		Name:      "orders_consumed_total",
		Help:      "Total number of successfully stored orders from the topic",
	})

	ordersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_store",
		Subsystem: "kafka_consumer",
		Name:      "orders_rejected_total",
		Help:      "Total number of messages that failed validation or storage",
	})

	ordersDLQ = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_store",
		Subsystem: "kafka_consumer",
		Name:      "orders_dlq_total",
		Help:      "Total number of messages written to the DLQ",
	})

	commitErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_store",
		Subsystem: "kafka_consumer",
		Name:      "commit_errors_total",
		Help:      "Total number of Kafka commit errors",
	})

	consumeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "order_store",
		Subsystem: "kafka_consumer",
		Name:      "order_processing_duration_seconds",
		Help:      "Histogram of order processing durations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)
