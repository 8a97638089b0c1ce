package queue

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// maxDelaySeconds is the largest per-message delay SQS accepts.
const maxDelaySeconds = 900

// SQSEnqueuer publishes job payloads to an SQS queue.
type SQSEnqueuer struct {
	client   sqsAPI
	queueURL string
	log      zerolog.Logger
}

// NewSQSEnqueuer creates an enqueuer for the given queue URL and region.
func NewSQSEnqueuer(queueURL, region string, log zerolog.Logger) (*SQSEnqueuer, error) {
	client, err := newAWSSQSClient(region)
	if err != nil {
		return nil, fmt.Errorf("create sqs client: %w", err)
	}
	return newSQSEnqueuer(client, queueURL, log), nil
}

// newSQSEnqueuer wires an enqueuer to an sqsAPI. Used directly in tests.
func newSQSEnqueuer(client sqsAPI, queueURL string, log zerolog.Logger) *SQSEnqueuer {
	return &SQSEnqueuer{
		client:   client,
		queueURL: queueURL,
		log:      log.With().Str("component", "sqs_enqueuer").Logger(),
	}
}

// Enqueue publishes body to the queue. The message stays invisible to
// consumers for delaySeconds, clamped to the SQS maximum of 900.
func (e *SQSEnqueuer) Enqueue(ctx context.Context, body []byte, delaySeconds int32) (string, error) {
	if delaySeconds < 0 {
		delaySeconds = 0
	}
	if delaySeconds > maxDelaySeconds {
		delaySeconds = maxDelaySeconds
	}

	out, err := e.client.SendMessage(ctx, &sqsSendInput{
		QueueURL:     e.queueURL,
		MessageBody:  string(body),
		DelaySeconds: delaySeconds,
	})
	if err != nil {
		messagesEnqueueErrors.Inc()
		return "", fmt.Errorf("sqs send message: %w", err)
	}

	messagesEnqueued.Inc()
	e.log.Debug().
		Str("queue_message_id", out.MessageID).
		Int32("delay_seconds", delaySeconds).
		Msg("message enqueued")
	return out.MessageID, nil
}
