package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/payslice/sms-relay/internal/config"
)

// SQSDequeuer manages a pool of worker goroutines that consume and process
// messages from an AWS SQS queue.
//
// Redelivery semantics: a message is deleted only after the handler returns
// nil. On handler failure the message is left in flight, becomes visible
// again when its visibility timeout expires, and SQS redelivers it. Poison
// messages reach the dead-letter queue through the queue's redrive policy,
// not through any logic here.
type SQSDequeuer struct {
	client          sqsAPI
	queueURL        string
	handler         MessageHandler
	log             zerolog.Logger
	workerCount     int
	waitTime        int32
	visTimeout      int32
	processTimeout  time.Duration
	shutdownTimeout time.Duration
	wg              sync.WaitGroup
	cancel          context.CancelFunc
}

// NewSQSDequeuer creates a dequeuer configured from the given queue config.
func NewSQSDequeuer(cfg config.QueueConfig, handler MessageHandler, log zerolog.Logger) (*SQSDequeuer, error) {
	client, err := newAWSSQSClient(cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("create sqs client: %w", err)
	}
	return newSQSDequeuer(client, cfg, handler, log), nil
}

// newSQSDequeuer wires a dequeuer to an sqsAPI. Used directly in tests.
func newSQSDequeuer(client sqsAPI, cfg config.QueueConfig, handler MessageHandler, log zerolog.Logger) *SQSDequeuer {
	return &SQSDequeuer{
		client:          client,
		queueURL:        cfg.QueueURL,
		handler:         handler,
		log:             log.With().Str("component", "sqs_dequeuer").Logger(),
		workerCount:     cfg.WorkerCount,
		waitTime:        cfg.WaitTime,
		visTimeout:      cfg.VisTimeout,
		processTimeout:  cfg.ProcessTimeout,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Start launches workerCount goroutines that long-poll the SQS queue.
func (d *SQSDequeuer) Start(ctx context.Context) error {
	ctx, d.cancel = context.WithCancel(ctx)

	for i := range d.workerCount {
		d.wg.Add(1)
		go d.runWorker(ctx, fmt.Sprintf("sqs-worker-%d", i))
	}

	d.log.Info().
		Int("worker_count", d.workerCount).
		Str("queue_url", d.queueURL).
		Msg("sqs dequeuer started")

	return nil
}

// Stop cancels the context and waits for workers to finish within the
// shutdown timeout.
func (d *SQSDequeuer) Stop(_ context.Context) error {
	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.log.Info().Msg("sqs dequeuer stopped gracefully")
		return nil
	case <-time.After(d.shutdownTimeout):
		d.log.Warn().Msg("sqs dequeuer shutdown timed out")
		return fmt.Errorf("shutdown timed out after %s", d.shutdownTimeout)
	}
}

// runWorker is the main loop for a single worker goroutine. It long-polls
// SQS in batches of up to 10 and processes received messages one at a time.
func (d *SQSDequeuer) runWorker(ctx context.Context, workerName string) {
	defer d.wg.Done()

	d.log.Info().Str("worker", workerName).Msg("sqs worker started")

	for {
		select {
		case <-ctx.Done():
			d.log.Info().Str("worker", workerName).Msg("sqs worker stopping")
			return
		default:
		}

		out, err := d.client.ReceiveMessage(ctx, &sqsReceiveInput{
			QueueURL:            d.queueURL,
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     d.waitTime,
			VisibilityTimeout:   d.visTimeout,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			d.log.Error().Err(err).Str("worker", workerName).Msg("sqs receive error")
			continue
		}

		for _, sqsMsg := range out.Messages {
			d.processMessage(ctx, workerName, sqsMsg)
		}
	}
}

// processMessage invokes the handler and deletes the message on success.
// Failed messages are never deleted here; each record in a batch is
// acknowledged independently, so one bad record does not hold back the rest.
func (d *SQSDequeuer) processMessage(ctx context.Context, workerName string, sqsMsg sqsReceivedMessage) {
	start := time.Now()

	processCtx, cancel := context.WithTimeout(ctx, d.processTimeout)
	defer cancel()

	err := d.handler.HandleMessage(processCtx, []byte(sqsMsg.Body))

	messageProcessingDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		messagesProcessed.WithLabelValues("failed").Inc()
		d.log.Error().
			Err(err).
			Str("worker", workerName).
			Str("sqs_message_id", sqsMsg.MessageID).
			Msg("message processing failed, leaving for redelivery")
		return
	}

	messagesProcessed.WithLabelValues("processed").Inc()

	if delErr := d.client.DeleteMessage(ctx, &sqsDeleteInput{
		QueueURL:      d.queueURL,
		ReceiptHandle: sqsMsg.ReceiptHandle,
	}); delErr != nil {
		d.log.Error().Err(delErr).
			Str("sqs_message_id", sqsMsg.MessageID).
			Msg("failed to delete sqs message")
	}
}
