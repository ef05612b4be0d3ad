package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quote status constants.
const (
	QuoteStatusPending  = "pending"
	QuoteStatusQuoted   = "quoted"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)

// Quote is a customer's request for pricing. Staff price it, the customer
// accepts or rejects; acceptance generates a shipment.
type Quote struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	Status      string         `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	Mode        string         `gorm:"type:varchar(16);not null" json:"mode"`
	OriginPort  string         `gorm:"type:varchar(128)" json:"origin_port"`
	Notes       string         `gorm:"type:varchar(1024)" json:"notes,omitempty"`
	AmountCents int64          `json:"amount_cents,omitempty"`
	Currency    string         `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Items       []QuoteItem    `gorm:"foreignKey:QuoteID" json:"items"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuoteItem is one requested FBA destination on a quote. Copied into a
// WarehouseDestination when the quote is accepted.
type QuoteItem struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID           uuid.UUID `gorm:"type:uuid;not null;index" json:"quote_id"`
	FBAWarehouse      string    `gorm:"type:varchar(32);not null" json:"fba_warehouse"`
	EstimatedCartons  int       `gorm:"not null;default:0" json:"estimated_cartons"`
	EstimatedWeightKg float64   `gorm:"not null;default:0" json:"estimated_weight_kg"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// QuoteRequestPayload is the customer payload for a new quote request.
type QuoteRequestPayload struct {
	Mode       string             `json:"mode" binding:"required,oneof=air sea"`
	OriginPort string             `json:"origin_port" binding:"required"`
	Notes      string             `json:"notes"`
	Items      []QuoteItemPayload `json:"items" binding:"required,min=1,dive"`
}

// QuoteItemPayload is one destination line on a quote request.
type QuoteItemPayload struct {
	FBAWarehouse      string  `json:"fba_warehouse" binding:"required"`
	EstimatedCartons  int     `json:"estimated_cartons" binding:"required,gt=0"`
	EstimatedWeightKg float64 `json:"estimated_weight_kg" binding:"required,gt=0"`
}

// PriceQuotePayload is the staff payload for pricing a pending quote.
type PriceQuotePayload struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"required,len=3"`
}
