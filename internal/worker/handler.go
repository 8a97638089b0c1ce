package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/payslice/sms-relay/internal/event"
	"github.com/payslice/sms-relay/internal/metrics"
	"github.com/payslice/sms-relay/internal/provider"
)

// Handler processes delayed SMS jobs from the queue. It implements
// queue.MessageHandler: any returned error leaves the record unacknowledged
// so the queue redelivers it and eventually dead-letters it.
type Handler struct {
	provider provider.Provider
	log      zerolog.Logger
}

// NewHandler creates a worker handler backed by the given provider.
func NewHandler(p provider.Provider, log zerolog.Logger) *Handler {
	return &Handler{
		provider: p,
		log:      log.With().Str("component", "worker").Logger(),
	}
}

// HandleMessage delivers one queued job. A malformed payload, a job missing
// its recipient, an unsupported event type, and a provider failure all return
// an error; none of them may abort sibling records in the batch.
func (h *Handler) HandleMessage(ctx context.Context, body []byte) error {
	var job event.QueuedJob
	if err := json.Unmarshal(body, &job); err != nil {
		h.log.Error().Err(err).Msg("malformed queue payload")
		return fmt.Errorf("unmarshal queued job: %w", err)
	}

	log := h.log.With().
		Str("event_id", job.EventID).
		Str("event", string(job.Event)).
		Logger()

	if job.User.Phone == "" {
		log.Error().Msg("queued job has no recipient phone")
		return fmt.Errorf("job %s: missing recipient phone", job.EventID)
	}

	text, err := event.RenderBody(job.Event, job.Amount)
	if err != nil {
		log.Error().Err(err).Msg("cannot render message body")
		return err
	}

	result, err := h.provider.Send(ctx, &provider.Message{To: job.User.Phone, Body: text})
	if err != nil {
		metrics.MessagesSentTotal.WithLabelValues("worker", "failed").Inc()
		log.Error().Err(err).Msg("provider send failed")
		return fmt.Errorf("send job %s: %w", job.EventID, err)
	}

	metrics.MessagesSentTotal.WithLabelValues("worker", "sent").Inc()
	log.Info().
		Str("message_sid", result.ProviderMessageID).
		Str("status", string(result.Status)).
		Msg("delayed message sent")
	return nil
}
