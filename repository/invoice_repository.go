package repository

import (
	"context"

	"freight-portal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceRepository defines data-access operations for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	FindByShipmentID(ctx context.Context, shipmentID uuid.UUID) (*models.Invoice, error)
	FindByPaymentIntentID(ctx context.Context, intentID string) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
}

type gormInvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &gormInvoiceRepository{db: db}
}

func (r *gormInvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *gormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *gormInvoiceRepository) FindByShipmentID(ctx context.Context, shipmentID uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *gormInvoiceRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.WithContext(ctx).
		Where("stripe_payment_intent_id = ?", intentID).
		First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *gormInvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}
