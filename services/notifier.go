package services

import (
	"context"
	"encoding/json"

	"freight-portal/awsx"
	"freight-portal/models"

	"go.uber.org/zap"
)

// Notifier publishes notification events to SNS. Publishing is best-effort:
// a failed publish is logged, never surfaced to the caller, since the
// triggering business operation has already committed.
type Notifier struct {
	sns      awsx.SNSPublisher
	topicArn string
	logger   *zap.Logger
}

func NewNotifier(sns awsx.SNSPublisher, topicArn string, logger *zap.Logger) *Notifier {
	return &Notifier{sns: sns, topicArn: topicArn, logger: logger}
}

// Publish marshals and publishes an event payload.
func (n *Notifier) Publish(ctx context.Context, event models.EventPayload) {
	if n == nil || n.sns == nil || n.topicArn == "" {
		return
	}
	b, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to marshal notification event", zap.Error(err))
		return
	}
	if err := n.sns.Publish(ctx, n.topicArn, b); err != nil {
		n.logger.Error("Failed to publish notification event",
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		return
	}
	n.logger.Info("Published notification event",
		zap.String("event_type", event.EventType),
		zap.String("recipient", event.Recipient),
	)
}
