package services

import (
	"context"

	"freight-portal/models"
	"freight-portal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageService handles the customer-staff conversation threads. A customer
// always talks on their own thread; staff must name the customer.
type MessageService interface {
	Send(ctx context.Context, senderID uuid.UUID, role string, req *models.SendMessageRequest) (*models.Message, *ServiceError)
	Conversation(ctx context.Context, requesterID uuid.UUID, role string, customerID uuid.UUID, shipmentID *uuid.UUID, page, limit int) ([]models.Message, int64, *ServiceError)
	MarkRead(ctx context.Context, readerID uuid.UUID, id uuid.UUID) *ServiceError
}

type messageService struct {
	messages repository.MessageRepository
	logger   *zap.Logger
}

func NewMessageService(messages repository.MessageRepository, logger *zap.Logger) MessageService {
	return &messageService{messages: messages, logger: logger}
}

func (s *messageService) Send(ctx context.Context, senderID uuid.UUID, role string, req *models.SendMessageRequest) (*models.Message, *ServiceError) {
	customerID := senderID
	if role != models.RoleCustomer {
		if req.CustomerID == nil {
			return nil, &ServiceError{StatusCode: 400, Message: "customer_id is required"}
		}
		customerID = *req.CustomerID
	}

	msg := &models.Message{
		ShipmentID: req.ShipmentID,
		SenderID:   senderID,
		CustomerID: customerID,
		Body:       req.Body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		s.logger.Error("Failed to persist message", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to send message"}
	}
	return msg, nil
}

func (s *messageService) Conversation(ctx context.Context, requesterID uuid.UUID, role string, customerID uuid.UUID, shipmentID *uuid.UUID, page, limit int) ([]models.Message, int64, *ServiceError) {
	if role == models.RoleCustomer {
		customerID = requesterID
	} else if customerID == uuid.Nil {
		return nil, 0, &ServiceError{StatusCode: 400, Message: "customer_id is required"}
	}

	msgs, total, err := s.messages.FindConversation(ctx, customerID, shipmentID, page, limit)
	if err != nil {
		s.logger.Error("Failed to load conversation", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to load messages"}
	}
	return msgs, total, nil
}

func (s *messageService) MarkRead(ctx context.Context, readerID uuid.UUID, id uuid.UUID) *ServiceError {
	if err := s.messages.MarkRead(ctx, id, readerID); err != nil {
		s.logger.Error("Failed to mark message read", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update message"}
	}
	return nil
}
