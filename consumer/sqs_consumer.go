// Package consumer drains the notification queue and hands events to the
// notification service.
package consumer

import (
	"context"
	"encoding/json"
	"time"

	"freight-portal/awsx"
	"freight-portal/models"
	"freight-portal/services"

	"go.uber.org/zap"
)

type SQSConsumer struct {
	queue   *awsx.SQSQueue
	service services.NotificationService
	logger  *zap.Logger
}

func NewSQSConsumer(queue *awsx.SQSQueue, svc services.NotificationService, logger *zap.Logger) *SQSConsumer {
	return &SQSConsumer{queue: queue, service: svc, logger: logger}
}

// Start polls until the context is cancelled. Run it on its own goroutine.
func (c *SQSConsumer) Start(ctx context.Context) {
	c.logger.Info("SQS consumer started", zap.String("queue", c.queue.QueueURL()))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("SQS consumer shutting down")
			return
		default:
			c.poll(ctx)
		}
	}
}

func (c *SQSConsumer) poll(ctx context.Context) {
	output, err := c.queue.Receive(ctx, 10, 5)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.logger.Error("SQS receive error", zap.Error(err))
		time.Sleep(5 * time.Second)
		return
	}

	for _, msg := range output.Messages {
		c.processMessage(ctx, msg.Body, msg.ReceiptHandle)
	}
}

// snsEnvelope unwraps the SNS → SQS message wrapper.
type snsEnvelope struct {
	Message string `json:"Message"`
}

func (c *SQSConsumer) processMessage(ctx context.Context, body *string, receiptHandle *string) {
	if body == nil || *body == "" {
		c.logger.Error("Received empty SQS message body")
		return
	}
	if receiptHandle == nil || *receiptHandle == "" {
		c.logger.Error("Received empty SQS receipt handle")
		return
	}

	var envelope snsEnvelope
	if err := json.Unmarshal([]byte(*body), &envelope); err != nil {
		c.logger.Error("Failed to unmarshal SNS envelope", zap.Error(err))
		// Unparseable, delete to avoid an infinite redelivery loop.
		c.deleteMessage(ctx, receiptHandle)
		return
	}

	var payload models.EventPayload
	if err := json.Unmarshal([]byte(envelope.Message), &payload); err != nil {
		c.logger.Error("Failed to unmarshal event payload", zap.Error(err))
		c.deleteMessage(ctx, receiptHandle)
		return
	}

	// Do not delete on failure; SQS redelivers after the visibility timeout.
	if err := c.service.ProcessEvent(ctx, &payload); err != nil {
		c.logger.Error("Failed to process event",
			zap.String("event_type", payload.EventType),
			zap.Error(err),
		)
		return
	}

	c.deleteMessage(ctx, receiptHandle)
}

func (c *SQSConsumer) deleteMessage(ctx context.Context, receiptHandle *string) {
	if err := c.queue.Delete(ctx, receiptHandle); err != nil {
		c.logger.Error("Failed to delete SQS message", zap.Error(err))
	}
}
