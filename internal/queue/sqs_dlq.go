package queue

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// SQSDLQ drains messages from the dead-letter queue back onto the primary
// queue so they get another round of delivery attempts. Messages land in the
// DLQ via the primary queue's redrive policy; this type only moves them back.
type SQSDLQ struct {
	client   sqsAPI
	dlqURL   string
	enqueuer Enqueuer
	log      zerolog.Logger
}

// NewSQSDLQ creates a reprocessor for the given dead-letter queue URL.
func NewSQSDLQ(dlqURL, region string, enqueuer Enqueuer, log zerolog.Logger) (*SQSDLQ, error) {
	client, err := newAWSSQSClient(region)
	if err != nil {
		return nil, fmt.Errorf("create sqs client: %w", err)
	}
	return newSQSDLQ(client, dlqURL, enqueuer, log), nil
}

// newSQSDLQ wires a reprocessor to an sqsAPI. Used directly in tests.
func newSQSDLQ(client sqsAPI, dlqURL string, enqueuer Enqueuer, log zerolog.Logger) *SQSDLQ {
	return &SQSDLQ{
		client:   client,
		dlqURL:   dlqURL,
		enqueuer: enqueuer,
		log:      log.With().Str("component", "sqs_dlq").Logger(),
	}
}

// Reprocess receives up to max messages from the DLQ, re-enqueues each body
// onto the primary queue with no delay, and deletes it from the DLQ only
// after the re-enqueue succeeds. Returns the number of messages moved.
func (q *SQSDLQ) Reprocess(ctx context.Context, max int) (int, error) {
	if q.dlqURL == "" {
		return 0, fmt.Errorf("dead-letter queue not configured")
	}
	if max <= 0 {
		max = 10
	}

	moved := 0
	for moved < max {
		batch := int32(max - moved)
		if batch > 10 {
			batch = 10
		}

		out, err := q.client.ReceiveMessage(ctx, &sqsReceiveInput{
			QueueURL:            q.dlqURL,
			MaxNumberOfMessages: batch,
			WaitTimeSeconds:     0,
			VisibilityTimeout:   30,
		})
		if err != nil {
			return moved, fmt.Errorf("receive from dlq: %w", err)
		}
		if len(out.Messages) == 0 {
			break
		}

		for _, msg := range out.Messages {
			if _, err := q.enqueuer.Enqueue(ctx, []byte(msg.Body), 0); err != nil {
				q.log.Error().Err(err).
					Str("sqs_message_id", msg.MessageID).
					Msg("failed to re-enqueue dlq message")
				// Leave it in the DLQ; visibility timeout restores it.
				continue
			}

			if err := q.client.DeleteMessage(ctx, &sqsDeleteInput{
				QueueURL:      q.dlqURL,
				ReceiptHandle: msg.ReceiptHandle,
			}); err != nil {
				q.log.Error().Err(err).
					Str("sqs_message_id", msg.MessageID).
					Msg("failed to delete reprocessed dlq message")
				continue
			}

			dlqReprocessed.Inc()
			moved++
		}
	}

	q.log.Info().Int("moved", moved).Msg("dlq reprocess finished")
	return moved, nil
}
