package sender

import (
	"context"
	"time"
)

// SendResult reports a successful delivery.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// EmailSender delivers one rendered email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}
