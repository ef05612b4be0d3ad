package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shipment raw status constants. The derived, customer-facing label is
// computed by the progress package and never stored.
const (
	ShipmentStatusBookingConfirmed = "Booking Confirmed"
	ShipmentStatusAwaitingPickup   = "Awaiting Pickup"
	ShipmentStatusInTransit        = "In Transit"
	ShipmentStatusCustoms          = "Customs"
	ShipmentStatusOutForDelivery   = "Out for Delivery"
	ShipmentStatusDelivered        = "Delivered"
	ShipmentStatusCancelled        = "Cancelled"
)

// Shipment modes.
const (
	ModeAir = "air"
	ModeSea = "sea"
)

// Shipment is the GORM aggregate persisted in Postgres. Destinations, the
// invoice and the event log are loaded with it so the service layer can
// normalize the whole record in one place.
type Shipment struct {
	ID           uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID      uuid.UUID              `gorm:"type:uuid;index" json:"quote_id"`
	CustomerID   uuid.UUID              `gorm:"type:uuid;not null;index" json:"customer_id"`
	Mode         string                 `gorm:"type:varchar(16);not null" json:"mode"`
	OriginPort   string                 `gorm:"type:varchar(128)" json:"origin_port"`
	RawStatus    string                 `gorm:"type:varchar(32);not null;default:'Booking Confirmed'" json:"raw_status"`
	Destinations []WarehouseDestination `gorm:"foreignKey:ShipmentID" json:"destinations"`
	Invoice      *Invoice               `gorm:"foreignKey:ShipmentID" json:"invoice,omitempty"`
	Events       []ShipmentEvent        `gorm:"foreignKey:ShipmentID" json:"events,omitempty"`
	CreatedAt    time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt         `gorm:"index" json:"-"`
}

// WarehouseDestination is one FBA warehouse leg of a shipment. Created when a
// quote is accepted; the customer fills in the Amazon IDs after payment.
// Rows are amended, never deleted.
type WarehouseDestination struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ShipmentID         uuid.UUID `gorm:"type:uuid;not null;index" json:"shipment_id"`
	FBAWarehouse       string    `gorm:"type:varchar(32);not null" json:"fba_warehouse"`
	AmazonShipmentID   string    `gorm:"type:varchar(64)" json:"amazon_shipment_id"`
	AmazonReferenceID  string    `gorm:"type:varchar(8)" json:"amazon_reference_id"`
	EstimatedCartons   int       `gorm:"not null;default:0" json:"estimated_cartons"`
	ActualCartons      int       `gorm:"not null;default:0" json:"actual_cartons"`
	EstimatedWeightKg  float64   `gorm:"not null;default:0" json:"estimated_weight_kg"`
	ChargeableWeightKg float64   `gorm:"not null;default:0" json:"chargeable_weight_kg"`
	DeliveryStatus     string    `gorm:"type:varchar(32)" json:"delivery_status"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Invoice status constants. Anything other than paid is treated as unpaid by
// the progress engine.
const (
	InvoiceStatusUnpaid = "unpaid"
	InvoiceStatusPaid   = "paid"
)

// Invoice is the single invoice staff raises for a shipment. Immutable once
// paid.
type Invoice struct {
	ID                    uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ShipmentID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"shipment_id"`
	Status                string     `gorm:"type:varchar(16);not null;default:'unpaid'" json:"status"`
	AmountCents           int64      `gorm:"not null" json:"amount_cents"`
	Currency              string     `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	StripePaymentIntentID string     `gorm:"type:varchar(128);index" json:"-"`
	PaidAt                *time.Time `json:"paid_at,omitempty"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// ShipmentEvent is one row of the tracking log, appended on every staff
// status update.
type ShipmentEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"shipment_id"`
	Status     string    `gorm:"type:varchar(32);not null" json:"status"`
	Location   string    `gorm:"type:varchar(128)" json:"location,omitempty"`
	Note       string    `gorm:"type:varchar(512)" json:"note,omitempty"`
	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CreateInvoiceRequest is the staff payload for raising a shipment invoice.
type CreateInvoiceRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"required,len=3"`
}

// UpdateStatusRequest is the staff payload for a status change.
type UpdateStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Location string `json:"location"`
	Note     string `json:"note"`
}

// UpdateDestinationIDsRequest is the customer payload for supplying Amazon
// IDs on a destination after payment.
type UpdateDestinationIDsRequest struct {
	AmazonShipmentID  string `json:"amazon_shipment_id" binding:"required"`
	AmazonReferenceID string `json:"amazon_reference_id"`
}
