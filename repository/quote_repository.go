package repository

import (
	"context"

	"freight-portal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuoteRepository defines data-access operations for quotes.
type QuoteRepository interface {
	Create(ctx context.Context, quote *models.Quote) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Quote, int64, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Quote, int64, error)
	Update(ctx context.Context, quote *models.Quote) error
}

type gormQuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &gormQuoteRepository{db: db}
}

func (r *gormQuoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *gormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var q models.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *gormQuoteRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Quote, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.Quote{}).Where("customer_id = ?", customerID), page, limit)
}

func (r *gormQuoteRepository) FindAll(ctx context.Context, page, limit int) ([]models.Quote, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.Quote{}), page, limit)
}

func (r *gormQuoteRepository) list(ctx context.Context, query *gorm.DB, page, limit int) ([]models.Quote, int64, error) {
	var quotes []models.Quote
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&quotes).Error; err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

func (r *gormQuoteRepository) Update(ctx context.Context, quote *models.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}
