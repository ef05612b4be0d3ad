package repository

import (
	"context"

	"freight-portal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShipmentRepository defines data-access operations for shipments. Reads
// always preload destinations, the invoice and the event log so callers see
// the whole aggregate in one shape.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *models.Shipment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Shipment, int64, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Shipment, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateDestination(ctx context.Context, dest *models.WarehouseDestination) error
	MarkDestinationsDelivered(ctx context.Context, shipmentID uuid.UUID) error
	AppendEvent(ctx context.Context, event *models.ShipmentEvent) error
}

type gormShipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &gormShipmentRepository{db: db}
}

func (r *gormShipmentRepository) Create(ctx context.Context, shipment *models.Shipment) error {
	return r.db.WithContext(ctx).Create(shipment).Error
}

func (r *gormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shipment, error) {
	var s models.Shipment
	if err := r.db.WithContext(ctx).
		Preload("Destinations", func(db *gorm.DB) *gorm.DB {
			return db.Order("warehouse_destinations.created_at ASC")
		}).
		Preload("Invoice").
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("shipment_events.occurred_at DESC")
		}).
		First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *gormShipmentRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Shipment, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.Shipment{}).Where("customer_id = ?", customerID), page, limit)
}

func (r *gormShipmentRepository) FindAll(ctx context.Context, page, limit int) ([]models.Shipment, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.Shipment{}), page, limit)
}

func (r *gormShipmentRepository) list(ctx context.Context, query *gorm.DB, page, limit int) ([]models.Shipment, int64, error) {
	var shipments []models.Shipment
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Destinations").
		Preload("Invoice").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&shipments).Error; err != nil {
		return nil, 0, err
	}
	return shipments, total, nil
}

func (r *gormShipmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Shipment{}).
		Where("id = ?", id).
		Update("raw_status", status).Error
}

func (r *gormShipmentRepository) UpdateDestination(ctx context.Context, dest *models.WarehouseDestination) error {
	return r.db.WithContext(ctx).Save(dest).Error
}

func (r *gormShipmentRepository) MarkDestinationsDelivered(ctx context.Context, shipmentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.WarehouseDestination{}).
		Where("shipment_id = ?", shipmentID).
		Update("delivery_status", "delivered").Error
}

func (r *gormShipmentRepository) AppendEvent(ctx context.Context, event *models.ShipmentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
