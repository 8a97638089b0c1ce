package queue

import "context"

// Enqueuer publishes raw job payloads to the queue with an optional
// visibility delay.
type Enqueuer interface {
	Enqueue(ctx context.Context, body []byte, delaySeconds int32) (string, error)
}

// Dequeuer consumes messages from the queue.
// Start begins consuming in background goroutines.
// Stop gracefully shuts down consumers.
type Dequeuer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Reprocessor drains jobs from the dead-letter queue back onto the primary
// queue. Operator-triggered; the queue's own redrive policy is what moves
// poison messages to the DLQ in the first place.
type Reprocessor interface {
	Reprocess(ctx context.Context, max int) (int, error)
}

// MessageHandler processes a single queue record. A nil return acknowledges
// the record; an error leaves it unacknowledged so the queue redelivers it.
type MessageHandler interface {
	HandleMessage(ctx context.Context, body []byte) error
}
