package repository

import (
	"context"

	"freight-portal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentRepository defines data-access operations for document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	FindByShipment(ctx context.Context, shipmentID uuid.UUID) ([]models.Document, error)
}

type gormDocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &gormDocumentRepository{db: db}
}

func (r *gormDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *gormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var d models.Document
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *gormDocumentRepository) FindByShipment(ctx context.Context, shipmentID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
