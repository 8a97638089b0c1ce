package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/payslice/sms-relay/internal/event"
	"github.com/payslice/sms-relay/internal/metrics"
	"github.com/payslice/sms-relay/internal/provider"
	"github.com/payslice/sms-relay/internal/queue"
)

// DuplicateGuard reports whether an event id has been seen before, marking it
// as seen in the same call. *idempotency.Guard satisfies this.
type DuplicateGuard interface {
	MarkIfNew(ctx context.Context, eventID string) (bool, error)
}

// Outcome describes what an accepted event caused.
type Outcome struct {
	// Duplicate is true when the idempotency guard has seen the event id
	// before. No send and no enqueue happened.
	Duplicate bool
	// Queued is true when a delayed job was published for the worker.
	Queued bool
	// MessageSID is the provider delivery identifier when an immediate
	// send happened and succeeded.
	MessageSID string
	// QueueMessageID is the queue's identifier for the published job.
	QueueMessageID string
}

// Service routes validated inbound events to the messaging provider and the
// job queue.
type Service struct {
	provider     provider.Provider
	enqueuer     queue.Enqueuer
	guard        DuplicateGuard
	delaySeconds int32
	log          zerolog.Logger
}

// NewService creates an ingest service. guard may be nil when idempotency is
// disabled.
func NewService(p provider.Provider, enq queue.Enqueuer, guard DuplicateGuard, delaySeconds int32, log zerolog.Logger) *Service {
	return &Service{
		provider:     p,
		enqueuer:     enq,
		guard:        guard,
		delaySeconds: delaySeconds,
		log:          log.With().Str("component", "ingest").Logger(),
	}
}

// Process handles one validated inbound event.
//
// advance_in_transit sends synchronously and enqueues nothing; a provider
// failure is the caller's failure. advance_approved always publishes exactly
// one delayed job, preceded by an optional best-effort immediate send when
// send_in_transit_now is set — an immediate-send failure never blocks the
// durable enqueue. Unsupported event types return event.ErrUnsupportedEvent.
func (s *Service) Process(ctx context.Context, ev *event.InboundEvent) (*Outcome, error) {
	log := s.log.With().
		Str("event_id", ev.EventID).
		Str("event", string(ev.Event)).
		Logger()

	fresh := true
	var err error
	if s.guard != nil {
		fresh, err = s.guard.MarkIfNew(ctx, ev.EventID)
	}
	if err != nil {
		// The guard is best effort. When the store is unreachable the
		// event proceeds as new rather than being dropped.
		log.Warn().Err(err).Msg("idempotency check failed, treating event as new")
		fresh = true
	}
	if !fresh {
		log.Info().Msg("duplicate event, skipping")
		metrics.EventsIngestedTotal.WithLabelValues(string(ev.Event), "duplicate").Inc()
		return &Outcome{Duplicate: true}, nil
	}

	amount := *ev.Amount

	switch ev.Event {
	case event.TypeAdvanceInTransit:
		return s.sendInTransit(ctx, log, ev, amount)
	case event.TypeAdvanceApproved:
		return s.queueApproved(ctx, log, ev, amount)
	default:
		return nil, fmt.Errorf("%w: %s", event.ErrUnsupportedEvent, ev.Event)
	}
}

// sendInTransit is the synchronous path: one provider call, no enqueue.
func (s *Service) sendInTransit(ctx context.Context, log zerolog.Logger, ev *event.InboundEvent, amount float64) (*Outcome, error) {
	body, err := event.RenderBody(ev.Event, amount)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.Send(ctx, &provider.Message{To: ev.User.Phone, Body: body})
	if err != nil {
		metrics.EventsIngestedTotal.WithLabelValues(string(ev.Event), "failed").Inc()
		return nil, fmt.Errorf("send in-transit message: %w", err)
	}

	metrics.EventsIngestedTotal.WithLabelValues(string(ev.Event), "sent").Inc()
	log.Info().Str("message_sid", result.ProviderMessageID).Msg("in-transit message sent")
	return &Outcome{MessageSID: result.ProviderMessageID}, nil
}

// queueApproved publishes the delayed job and optionally fires the immediate
// "funds are moving" text first.
func (s *Service) queueApproved(ctx context.Context, log zerolog.Logger, ev *event.InboundEvent, amount float64) (*Outcome, error) {
	out := &Outcome{}

	if ev.SendInTransitNow {
		result, err := s.provider.Send(ctx, &provider.Message{
			To:   ev.User.Phone,
			Body: event.InTransitNowBody(amount),
		})
		if err != nil {
			log.Warn().Err(err).Msg("immediate send failed, job will still be queued")
		} else {
			out.MessageSID = result.ProviderMessageID
			log.Info().Str("message_sid", result.ProviderMessageID).Msg("immediate message sent")
		}
	}

	job := event.QueuedJob{
		EventID: ev.EventID,
		Event:   ev.Event,
		User:    ev.User,
		Amount:  amount,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal queued job: %w", err)
	}

	msgID, err := s.enqueuer.Enqueue(ctx, payload, s.delaySeconds)
	if err != nil {
		metrics.EventsIngestedTotal.WithLabelValues(string(ev.Event), "failed").Inc()
		return nil, fmt.Errorf("enqueue job: %w", err)
	}

	metrics.EventsIngestedTotal.WithLabelValues(string(ev.Event), "queued").Inc()
	out.Queued = true
	out.QueueMessageID = msgID
	log.Info().
		Str("queue_message_id", msgID).
		Int32("delay_seconds", s.delaySeconds).
		Msg("job queued")
	return out, nil
}
