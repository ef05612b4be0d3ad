package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is metadata for a file stored in S3.
type Document struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ShipmentID  uuid.UUID `gorm:"type:uuid;not null;index" json:"shipment_id"`
	UploaderID  uuid.UUID `gorm:"type:uuid;not null" json:"uploader_id"`
	FileName    string    `gorm:"type:varchar(256);not null" json:"file_name"`
	ContentType string    `gorm:"type:varchar(128)" json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	S3Key       string    `gorm:"type:varchar(512);not null" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Message is one customer-staff message, optionally attached to a shipment.
type Message struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ShipmentID *uuid.UUID `gorm:"type:uuid;index" json:"shipment_id,omitempty"`
	SenderID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	Body       string     `gorm:"type:varchar(4096);not null" json:"body"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// SendMessageRequest is the payload for posting a message.
type SendMessageRequest struct {
	ShipmentID *uuid.UUID `json:"shipment_id"`
	CustomerID *uuid.UUID `json:"customer_id"`
	Body       string     `json:"body" binding:"required,max=4096"`
}

// Announcement is a staff-authored broadcast shown to all customers.
type Announcement struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(256);not null" json:"title"`
	Body      string    `gorm:"type:varchar(4096);not null" json:"body"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CreateAnnouncementRequest is the staff payload for a new announcement.
type CreateAnnouncementRequest struct {
	Title string `json:"title" binding:"required,max=256"`
	Body  string `json:"body" binding:"required,max=4096"`
}

// Notification channels, statuses and event types.
const (
	ChannelEmail = "email"

	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"

	TypeUserRegistered    = "user_registered"
	TypeQuoteReady        = "quote_ready"
	TypeInvoiceIssued     = "invoice_issued"
	TypePaymentReceived   = "payment_received"
	TypeShipmentStatus    = "shipment_status"
	TypeShipmentDelivered = "shipment_delivered"
)

// NotificationLog records one delivery attempt.
type NotificationLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Recipient string    `gorm:"type:varchar(256);not null" json:"recipient"`
	Type      string    `gorm:"type:varchar(32);not null" json:"type"`
	Channel   string    `gorm:"type:varchar(16);not null" json:"channel"`
	Status    string    `gorm:"type:varchar(16);not null" json:"status"`
	Error     string    `gorm:"type:varchar(1024)" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// NotificationFilter narrows a log listing.
type NotificationFilter struct {
	UserID   uuid.UUID
	Status   string
	Type     string
	Page     int
	PageSize int
}

// EventPayload is the message published to SNS and consumed from SQS for
// transactional email.
type EventPayload struct {
	EventType string                 `json:"event_type"`
	UserID    uuid.UUID              `json:"user_id"`
	Recipient string                 `json:"recipient"`
	Data      map[string]interface{} `json:"data"`
}
