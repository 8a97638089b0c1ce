package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts completed HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sms_relay_http_requests_total",
		Help: "Total number of HTTP requests by method, path, and status.",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sms_relay_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// EventsIngestedTotal counts processed inbound events by outcome.
	EventsIngestedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sms_relay_events_ingested_total",
		Help: "Total number of inbound events by type and outcome.",
	}, []string{"event", "outcome"})

	// MessagesSentTotal counts provider send attempts by outcome.
	MessagesSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sms_relay_messages_sent_total",
		Help: "Total number of provider send attempts by path and outcome.",
	}, []string{"path", "outcome"})
)
