package services

import (
	"context"
	"fmt"

	"freight-portal/models"
	"freight-portal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteService handles the quote lifecycle: request → priced → accepted or
// rejected. Accepting a quote generates the shipment.
type QuoteService interface {
	RequestQuote(ctx context.Context, customerID uuid.UUID, req *models.QuoteRequestPayload) (*models.Quote, *ServiceError)
	ListQuotes(ctx context.Context, requesterID uuid.UUID, role string, page, limit int) ([]models.Quote, int64, *ServiceError)
	GetQuote(ctx context.Context, requesterID uuid.UUID, role string, id uuid.UUID) (*models.Quote, *ServiceError)
	PriceQuote(ctx context.Context, id uuid.UUID, req *models.PriceQuotePayload) (*models.Quote, *ServiceError)
	AcceptQuote(ctx context.Context, customerID uuid.UUID, id uuid.UUID) (*models.Shipment, *ServiceError)
	RejectQuote(ctx context.Context, customerID uuid.UUID, id uuid.UUID) (*models.Quote, *ServiceError)
}

type quoteService struct {
	quotes    repository.QuoteRepository
	shipments repository.ShipmentRepository
	users     repository.UserRepository
	notifier  *Notifier
	logger    *zap.Logger
}

func NewQuoteService(
	quotes repository.QuoteRepository,
	shipments repository.ShipmentRepository,
	users repository.UserRepository,
	notifier *Notifier,
	logger *zap.Logger,
) QuoteService {
	return &quoteService{
		quotes:    quotes,
		shipments: shipments,
		users:     users,
		notifier:  notifier,
		logger:    logger,
	}
}

func (s *quoteService) RequestQuote(ctx context.Context, customerID uuid.UUID, req *models.QuoteRequestPayload) (*models.Quote, *ServiceError) {
	quote := &models.Quote{
		CustomerID: customerID,
		Status:     models.QuoteStatusPending,
		Mode:       req.Mode,
		OriginPort: req.OriginPort,
		Notes:      req.Notes,
	}
	for _, item := range req.Items {
		quote.Items = append(quote.Items, models.QuoteItem{
			FBAWarehouse:      item.FBAWarehouse,
			EstimatedCartons:  item.EstimatedCartons,
			EstimatedWeightKg: item.EstimatedWeightKg,
		})
	}

	if err := s.quotes.Create(ctx, quote); err != nil {
		s.logger.Error("Failed to persist quote", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save quote request"}
	}

	s.logger.Info("Quote requested",
		zap.String("quote_id", quote.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.Int("destinations", len(quote.Items)),
	)
	return quote, nil
}

func (s *quoteService) ListQuotes(ctx context.Context, requesterID uuid.UUID, role string, page, limit int) ([]models.Quote, int64, *ServiceError) {
	var (
		quotes []models.Quote
		total  int64
		err    error
	)
	if role == models.RoleCustomer {
		quotes, total, err = s.quotes.FindByCustomer(ctx, requesterID, page, limit)
	} else {
		quotes, total, err = s.quotes.FindAll(ctx, page, limit)
	}
	if err != nil {
		s.logger.Error("Failed to list quotes", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list quotes"}
	}
	return quotes, total, nil
}

func (s *quoteService) GetQuote(ctx context.Context, requesterID uuid.UUID, role string, id uuid.UUID) (*models.Quote, *ServiceError) {
	quote, svcErr := s.findQuote(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if role == models.RoleCustomer && quote.CustomerID != requesterID {
		return nil, &ServiceError{StatusCode: 404, Message: "Quote not found"}
	}
	return quote, nil
}

// PriceQuote sets the amount on a pending quote and notifies the customer.
func (s *quoteService) PriceQuote(ctx context.Context, id uuid.UUID, req *models.PriceQuotePayload) (*models.Quote, *ServiceError) {
	quote, svcErr := s.findQuote(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if quote.Status != models.QuoteStatusPending {
		return nil, &ServiceError{StatusCode: 409, Message: fmt.Sprintf("Quote is %s, only pending quotes can be priced", quote.Status)}
	}

	quote.Status = models.QuoteStatusQuoted
	quote.AmountCents = req.AmountCents
	quote.Currency = req.Currency
	if err := s.quotes.Update(ctx, quote); err != nil {
		s.logger.Error("Failed to update quote", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save quote"}
	}

	if customer, err := s.users.FindByID(ctx, quote.CustomerID); err == nil {
		s.notifier.Publish(ctx, models.EventPayload{
			EventType: models.TypeQuoteReady,
			UserID:    customer.ID,
			Recipient: customer.Email,
			Data: map[string]interface{}{
				"name":         customer.Name,
				"quote_id":     quote.ID.String(),
				"amount_cents": quote.AmountCents,
				"currency":     quote.Currency,
			},
		})
	}

	s.logger.Info("Quote priced",
		zap.String("quote_id", quote.ID.String()),
		zap.Int64("amount_cents", quote.AmountCents),
	)
	return quote, nil
}

// AcceptQuote transitions a quoted quote to accepted and generates the
// shipment, copying quote items into warehouse destinations.
func (s *quoteService) AcceptQuote(ctx context.Context, customerID uuid.UUID, id uuid.UUID) (*models.Shipment, *ServiceError) {
	quote, svcErr := s.findQuote(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if quote.CustomerID != customerID {
		return nil, &ServiceError{StatusCode: 404, Message: "Quote not found"}
	}
	if quote.Status != models.QuoteStatusQuoted {
		return nil, &ServiceError{StatusCode: 409, Message: fmt.Sprintf("Quote is %s, only quoted quotes can be accepted", quote.Status)}
	}

	shipment := &models.Shipment{
		QuoteID:    quote.ID,
		CustomerID: quote.CustomerID,
		Mode:       quote.Mode,
		OriginPort: quote.OriginPort,
		RawStatus:  models.ShipmentStatusBookingConfirmed,
	}
	for _, item := range quote.Items {
		shipment.Destinations = append(shipment.Destinations, models.WarehouseDestination{
			FBAWarehouse:      item.FBAWarehouse,
			EstimatedCartons:  item.EstimatedCartons,
			EstimatedWeightKg: item.EstimatedWeightKg,
		})
	}

	if err := s.shipments.Create(ctx, shipment); err != nil {
		s.logger.Error("Failed to create shipment from quote", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create shipment"}
	}

	quote.Status = models.QuoteStatusAccepted
	if err := s.quotes.Update(ctx, quote); err != nil {
		s.logger.Error("Failed to mark quote accepted", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update quote"}
	}

	s.logger.Info("Quote accepted, shipment created",
		zap.String("quote_id", quote.ID.String()),
		zap.String("shipment_id", shipment.ID.String()),
	)
	return shipment, nil
}

func (s *quoteService) RejectQuote(ctx context.Context, customerID uuid.UUID, id uuid.UUID) (*models.Quote, *ServiceError) {
	quote, svcErr := s.findQuote(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if quote.CustomerID != customerID {
		return nil, &ServiceError{StatusCode: 404, Message: "Quote not found"}
	}
	if quote.Status != models.QuoteStatusQuoted {
		return nil, &ServiceError{StatusCode: 409, Message: fmt.Sprintf("Quote is %s, only quoted quotes can be rejected", quote.Status)}
	}

	quote.Status = models.QuoteStatusRejected
	if err := s.quotes.Update(ctx, quote); err != nil {
		s.logger.Error("Failed to reject quote", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update quote"}
	}
	return quote, nil
}

func (s *quoteService) findQuote(ctx context.Context, id uuid.UUID) (*models.Quote, *ServiceError) {
	quote, err := s.quotes.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Quote not found"}
		}
		s.logger.Error("Quote lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load quote"}
	}
	return quote, nil
}
