package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"freight-portal/awsx"
	"freight-portal/models"
	"freight-portal/repository"
	"freight-portal/sender"
	"freight-portal/templates"

	"go.uber.org/zap"
)

// NotificationService renders and delivers transactional email for events
// consumed off the queue, logging every attempt.
type NotificationService interface {
	ProcessEvent(ctx context.Context, payload *models.EventPayload) error
	GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error)
}

type eventConfig struct {
	tmplFile string
	subject  string
}

var eventConfigs = map[string]eventConfig{
	models.TypeUserRegistered: {
		tmplFile: "welcome.html",
		subject:  "Welcome to Freight Portal",
	},
	models.TypeQuoteReady: {
		tmplFile: "quote_ready.html",
		subject:  "Your quote is ready",
	},
	models.TypeInvoiceIssued: {
		tmplFile: "invoice_issued.html",
		subject:  "Invoice issued for your shipment",
	},
	models.TypePaymentReceived: {
		tmplFile: "payment_received.html",
		subject:  "Payment received",
	},
	models.TypeShipmentStatus: {
		tmplFile: "shipment_status.html",
		subject:  "Shipment status update",
	},
	models.TypeShipmentDelivered: {
		tmplFile: "shipment_delivered.html",
		subject:  "Your shipment has been delivered",
	},
}

type notificationService struct {
	repo        repository.NotificationRepository
	emailSender sender.EmailSender
	templates   map[string]*template.Template
	metrics     metricsRecorder
	logger      *zap.Logger
}

// metricsRecorder is the slice of the CloudWatch client this service uses.
type metricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

func NewNotificationService(
	repo repository.NotificationRepository,
	emailSender sender.EmailSender,
	metrics metricsRecorder,
	logger *zap.Logger,
) (NotificationService, error) {
	tmpls := make(map[string]*template.Template)
	for eventType, cfg := range eventConfigs {
		tmpl, err := template.ParseFS(templates.FS, cfg.tmplFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template for %s: %w", eventType, err)
		}
		tmpls[eventType] = tmpl
	}
	return &notificationService{
		repo:        repo,
		emailSender: emailSender,
		templates:   tmpls,
		metrics:     metrics,
		logger:      logger,
	}, nil
}

func (s *notificationService) ProcessEvent(ctx context.Context, payload *models.EventPayload) error {
	cfg, ok := eventConfigs[payload.EventType]
	if !ok {
		return fmt.Errorf("unsupported event type: %s", payload.EventType)
	}

	tmpl := s.templates[payload.EventType]
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, payload.Data); err != nil {
		return fmt.Errorf("template render failed: %w", err)
	}

	to := payload.Recipient
	if to == "" {
		if email, ok := payload.Data["email"].(string); ok {
			to = email
		}
	}
	if to == "" {
		s.logger.Warn("Missing recipient, dropping event",
			zap.String("event", payload.EventType),
		)
		return nil
	}

	s.sendWithRetry(ctx, to, cfg.subject, buf.String(), payload)
	return nil
}

func (s *notificationService) sendWithRetry(ctx context.Context, to, subject, body string, payload *models.EventPayload) {
	var lastErr error
	var messageID string

	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		var result sender.SendResult
		result, lastErr = s.emailSender.SendEmail(ctx, to, subject, body)
		if lastErr == nil {
			messageID = result.MessageID
			break
		}

		s.logger.Warn("Send attempt failed",
			zap.String("event", payload.EventType),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}

	status := models.NotificationStatusSent
	errMsg := ""
	if lastErr != nil {
		status = models.NotificationStatusFailed
		errMsg = lastErr.Error()
	}

	logEntry := &models.NotificationLog{
		UserID:    payload.UserID,
		Recipient: to,
		Type:      payload.EventType,
		Channel:   models.ChannelEmail,
		Status:    status,
		Error:     errMsg,
	}

	s.logger.Info("Notification processed",
		zap.String("event", payload.EventType),
		zap.String("status", status),
		zap.String("message_id", messageID),
	)

	if s.metrics != nil {
		metric := awsx.MetricEmailsSent
		if status == models.NotificationStatusFailed {
			metric = awsx.MetricEmailsFailed
		}
		if err := s.metrics.RecordCount(ctx, metric, map[string]string{"EventType": payload.EventType}); err != nil {
			s.logger.Warn("Metric publish failed", zap.Error(err))
		}
	}

	if err := s.repo.SaveLog(ctx, logEntry); err != nil {
		s.logger.Error("Failed to save notification log", zap.Error(err))
	}
}

func (s *notificationService) GetLogs(ctx context.Context, filter models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	return s.repo.GetLogs(ctx, filter)
}
