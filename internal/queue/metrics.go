package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sms_relay_queue_messages_enqueued_total",
		Help: "Total number of messages published to the job queue.",
	})

	messagesEnqueueErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sms_relay_queue_enqueue_errors_total",
		Help: "Total number of failed enqueue attempts.",
	})

	messagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sms_relay_queue_messages_processed_total",
		Help: "Total number of consumed messages by outcome.",
	}, []string{"outcome"})

	messageProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sms_relay_queue_processing_duration_seconds",
		Help:    "Time spent handling a single queue message.",
		Buckets: prometheus.DefBuckets,
	})

	dlqReprocessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sms_relay_queue_dlq_reprocessed_total",
		Help: "Total number of dead-letter messages moved back to the primary queue.",
	})
)
