package repository

import (
	"context"
	"time"

	"freight-portal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRepository defines data-access operations for customer-staff
// messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	FindConversation(ctx context.Context, customerID uuid.UUID, shipmentID *uuid.UUID, page, limit int) ([]models.Message, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID, readerID uuid.UUID) error
}

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *gormMessageRepository) FindConversation(ctx context.Context, customerID uuid.UUID, shipmentID *uuid.UUID, page, limit int) ([]models.Message, int64, error) {
	var msgs []models.Message
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Message{}).Where("customer_id = ?", customerID)
	if shipmentID != nil {
		query = query.Where("shipment_id = ?", *shipmentID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).Limit(limit).
		Order("created_at ASC").
		Find(&msgs).Error; err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

// MarkRead stamps ReadAt once; a message is only readable by someone other
// than its sender.
func (r *gormMessageRepository) MarkRead(ctx context.Context, id uuid.UUID, readerID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ? AND sender_id <> ? AND read_at IS NULL", id, readerID).
		Update("read_at", now).Error
}
