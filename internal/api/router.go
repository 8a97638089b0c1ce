package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/payslice/sms-relay/internal/ingest"
	"github.com/payslice/sms-relay/internal/queue"
)

// NewRouter creates a chi.Mux with all routes, middleware, and handlers
// configured. bearerToken protects the ingest and DLQ endpoints; the status
// callback stays open because the provider cannot send our token. The reproc
// parameter is optional; when nil, the DLQ reprocess endpoint is not
// registered.
func NewRouter(svc *ingest.Service, reproc queue.Reprocessor, bearerToken, version string, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CorrelationIDMiddleware)
	r.Use(LoggingMiddleware(log))
	r.Use(MetricsMiddleware)
	r.Use(RecoverMiddleware(log))

	// Operational endpoints (no auth required)
	r.Get("/healthz", HealthzHandler())
	r.Get("/version", VersionHandler(version))
	r.Handle("/metrics", promhttp.Handler())

	// Provider status callback (no auth - called by the messaging provider)
	r.Post("/v1/status/twilio", StatusCallbackHandler())

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(bearerToken))

		r.Post("/v1/events", IngestHandler(svc))

		if reproc != nil {
			r.Post("/v1/dlq/reprocess", DLQReprocessHandler(reproc))
		}
	})

	return r
}
