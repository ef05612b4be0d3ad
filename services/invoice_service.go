package services

import (
	"context"
	"time"

	"freight-portal/models"
	"freight-portal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentIntentResponse is returned to the customer when they start paying an
// invoice. The client secret goes to the Stripe frontend SDK.
type PaymentIntentResponse struct {
	InvoiceID    uuid.UUID `json:"invoice_id"`
	ClientSecret string    `json:"client_secret"`
}

// InvoiceService raises invoices, starts Stripe payments and applies webhook
// results.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, shipmentID uuid.UUID, req *models.CreateInvoiceRequest) (*models.Invoice, *ServiceError)
	GetInvoice(ctx context.Context, requesterID uuid.UUID, role string, shipmentID uuid.UUID) (*models.Invoice, *ServiceError)
	CreatePaymentIntent(ctx context.Context, customerID uuid.UUID, shipmentID uuid.UUID) (*PaymentIntentResponse, *ServiceError)
	HandlePaymentSucceeded(ctx context.Context, paymentIntentID string) *ServiceError
}

type invoiceService struct {
	invoices  repository.InvoiceRepository
	shipments repository.ShipmentRepository
	users     repository.UserRepository
	gateway   PaymentGateway
	notifier  *Notifier
	logger    *zap.Logger
}

func NewInvoiceService(
	invoices repository.InvoiceRepository,
	shipments repository.ShipmentRepository,
	users repository.UserRepository,
	gateway PaymentGateway,
	notifier *Notifier,
	logger *zap.Logger,
) InvoiceService {
	return &invoiceService{
		invoices:  invoices,
		shipments: shipments,
		users:     users,
		gateway:   gateway,
		notifier:  notifier,
		logger:    logger,
	}
}

// CreateInvoice raises the single invoice for a shipment. A second invoice on
// the same shipment is a conflict.
func (s *invoiceService) CreateInvoice(ctx context.Context, shipmentID uuid.UUID, req *models.CreateInvoiceRequest) (*models.Invoice, *ServiceError) {
	shipment, err := s.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Shipment not found"}
		}
		s.logger.Error("Shipment lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load shipment"}
	}

	if _, err := s.invoices.FindByShipmentID(ctx, shipmentID); err == nil {
		return nil, &ServiceError{StatusCode: 409, Message: "Shipment already has an invoice"}
	} else if err != gorm.ErrRecordNotFound {
		s.logger.Error("Invoice lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to check existing invoice"}
	}

	invoice := &models.Invoice{
		ShipmentID:  shipmentID,
		Status:      models.InvoiceStatusUnpaid,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		s.logger.Error("Failed to persist invoice", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create invoice"}
	}

	s.logger.Info("Invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("shipment_id", shipmentID.String()),
		zap.Int64("amount_cents", invoice.AmountCents),
	)

	if customer, err := s.users.FindByID(ctx, shipment.CustomerID); err == nil {
		s.notifier.Publish(ctx, models.EventPayload{
			EventType: models.TypeInvoiceIssued,
			UserID:    customer.ID,
			Recipient: customer.Email,
			Data: map[string]interface{}{
				"name":         customer.Name,
				"shipment_id":  shipmentID.String(),
				"amount_cents": invoice.AmountCents,
				"currency":     invoice.Currency,
			},
		})
	}

	return invoice, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, requesterID uuid.UUID, role string, shipmentID uuid.UUID) (*models.Invoice, *ServiceError) {
	shipment, err := s.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Shipment not found"}
		}
		s.logger.Error("Shipment lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load shipment"}
	}
	if role == models.RoleCustomer && shipment.CustomerID != requesterID {
		return nil, &ServiceError{StatusCode: 404, Message: "Shipment not found"}
	}

	invoice, err := s.invoices.FindByShipmentID(ctx, shipmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "No invoice for this shipment"}
		}
		s.logger.Error("Invoice lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load invoice"}
	}
	return invoice, nil
}

// CreatePaymentIntent starts a Stripe payment for the shipment's invoice. The
// intent ID is stored so the webhook can match the result back.
func (s *invoiceService) CreatePaymentIntent(ctx context.Context, customerID uuid.UUID, shipmentID uuid.UUID) (*PaymentIntentResponse, *ServiceError) {
	shipment, err := s.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Shipment not found"}
		}
		s.logger.Error("Shipment lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load shipment"}
	}
	if shipment.CustomerID != customerID {
		return nil, &ServiceError{StatusCode: 404, Message: "Shipment not found"}
	}

	invoice, err := s.invoices.FindByShipmentID(ctx, shipmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "No invoice for this shipment"}
		}
		s.logger.Error("Invoice lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load invoice"}
	}
	if invoice.Status == models.InvoiceStatusPaid {
		return nil, &ServiceError{StatusCode: 409, Message: "Invoice is already paid"}
	}

	intentID, clientSecret, err := s.gateway.CreatePaymentIntent(invoice.AmountCents, invoice.Currency, map[string]string{
		"invoice_id":  invoice.ID.String(),
		"shipment_id": shipmentID.String(),
	})
	if err != nil {
		s.logger.Error("Stripe payment intent failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Payment provider error"}
	}

	invoice.StripePaymentIntentID = intentID
	if err := s.invoices.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to store payment intent ID", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save invoice"}
	}

	s.logger.Info("Payment intent created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("payment_intent_id", intentID),
	)
	return &PaymentIntentResponse{InvoiceID: invoice.ID, ClientSecret: clientSecret}, nil
}

// HandlePaymentSucceeded marks the matching invoice paid. Duplicate webhook
// deliveries are acknowledged without a second state change.
func (s *invoiceService) HandlePaymentSucceeded(ctx context.Context, paymentIntentID string) *ServiceError {
	invoice, err := s.invoices.FindByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			s.logger.Warn("No invoice for payment intent", zap.String("payment_intent_id", paymentIntentID))
			return &ServiceError{StatusCode: 404, Message: "Invoice not found"}
		}
		s.logger.Error("Invoice lookup failed", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to load invoice"}
	}

	if invoice.Status == models.InvoiceStatusPaid {
		s.logger.Info("Skipping duplicate payment webhook",
			zap.String("invoice_id", invoice.ID.String()),
		)
		return nil
	}

	now := time.Now()
	invoice.Status = models.InvoiceStatusPaid
	invoice.PaidAt = &now
	if err := s.invoices.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to mark invoice paid", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update invoice"}
	}

	s.logger.Info("Invoice paid",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("shipment_id", invoice.ShipmentID.String()),
	)

	if shipment, err := s.shipments.FindByID(ctx, invoice.ShipmentID); err == nil {
		if customer, err := s.users.FindByID(ctx, shipment.CustomerID); err == nil {
			s.notifier.Publish(ctx, models.EventPayload{
				EventType: models.TypePaymentReceived,
				UserID:    customer.ID,
				Recipient: customer.Email,
				Data: map[string]interface{}{
					"name":         customer.Name,
					"shipment_id":  invoice.ShipmentID.String(),
					"amount_cents": invoice.AmountCents,
					"currency":     invoice.Currency,
				},
			})
		}
	}

	return nil
}
