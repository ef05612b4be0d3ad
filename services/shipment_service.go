package services

import (
	"context"
	"regexp"
	"time"

	"freight-portal/models"
	"freight-portal/progress"
	"freight-portal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// amazonReferenceIDPattern is enforced when the customer supplies a reference
// ID. The progress engine itself never checks format, only presence.
var amazonReferenceIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)

// ShipmentView is a shipment enriched with its derived progress. List views
// omit steps and per-destination progress; detail views carry everything.
type ShipmentView struct {
	models.Shipment
	Progress            progress.Derived            `json:"progress"`
	Steps               []progress.Step             `json:"steps,omitempty"`
	DestinationProgress map[string]progress.Derived `json:"destination_progress,omitempty"`
}

// ShipmentService exposes shipment reads with derived status plus the staff
// and customer mutations.
type ShipmentService interface {
	ListShipments(ctx context.Context, requesterID uuid.UUID, role string, page, limit int) ([]ShipmentView, int64, *ServiceError)
	GetShipment(ctx context.Context, requesterID uuid.UUID, role string, id uuid.UUID) (*ShipmentView, *ServiceError)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateStatusRequest) (*ShipmentView, *ServiceError)
	UpdateDestinationIDs(ctx context.Context, customerID uuid.UUID, shipmentID, destinationID uuid.UUID, req *models.UpdateDestinationIDsRequest) (*ShipmentView, *ServiceError)
}

type shipmentService struct {
	shipments repository.ShipmentRepository
	users     repository.UserRepository
	notifier  *Notifier
	logger    *zap.Logger
}

func NewShipmentService(
	shipments repository.ShipmentRepository,
	users repository.UserRepository,
	notifier *Notifier,
	logger *zap.Logger,
) ShipmentService {
	return &shipmentService{
		shipments: shipments,
		users:     users,
		notifier:  notifier,
		logger:    logger,
	}
}

// ToRecord normalizes a persisted shipment into the canonical engine input.
// Actual figures win over estimates here and nowhere else; downstream code
// never repeats these fallbacks.
func ToRecord(s *models.Shipment) progress.ShipmentRecord {
	record := progress.ShipmentRecord{
		ID:        s.ID.String(),
		RawStatus: s.RawStatus,
	}

	for _, d := range s.Destinations {
		cartons := d.ActualCartons
		if cartons == 0 {
			cartons = d.EstimatedCartons
		}
		weight := d.ChargeableWeightKg
		if weight == 0 {
			weight = d.EstimatedWeightKg
		}
		record.Destinations = append(record.Destinations, progress.Destination{
			ID:                 d.ID.String(),
			FBAWarehouse:       d.FBAWarehouse,
			AmazonShipmentID:   d.AmazonShipmentID,
			AmazonReferenceID:  d.AmazonReferenceID,
			Cartons:            cartons,
			ChargeableWeightKg: weight,
			DeliveryStatus:     d.DeliveryStatus,
		})
	}

	if s.Invoice != nil {
		status := progress.InvoiceUnpaid
		if s.Invoice.Status == models.InvoiceStatusPaid {
			status = progress.InvoicePaid
		}
		record.Invoice = &progress.Invoice{
			Status:      status,
			AmountCents: s.Invoice.AmountCents,
		}
	}

	return record
}

func newListView(s models.Shipment) ShipmentView {
	return ShipmentView{
		Shipment: s,
		Progress: progress.Derive(ToRecord(&s)),
	}
}

func newDetailView(s *models.Shipment) *ShipmentView {
	record := ToRecord(s)
	derived := progress.Derive(record)

	destProgress := make(map[string]progress.Derived, len(record.Destinations))
	for _, d := range record.Destinations {
		destProgress[d.ID] = progress.DeriveDestination(record, d)
	}

	return &ShipmentView{
		Shipment:            *s,
		Progress:            derived,
		Steps:               progress.ProjectSteps(record, derived),
		DestinationProgress: destProgress,
	}
}

func (s *shipmentService) ListShipments(ctx context.Context, requesterID uuid.UUID, role string, page, limit int) ([]ShipmentView, int64, *ServiceError) {
	var (
		shipments []models.Shipment
		total     int64
		err       error
	)
	if role == models.RoleCustomer {
		shipments, total, err = s.shipments.FindByCustomer(ctx, requesterID, page, limit)
	} else {
		shipments, total, err = s.shipments.FindAll(ctx, page, limit)
	}
	if err != nil {
		s.logger.Error("Failed to list shipments", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list shipments"}
	}

	views := make([]ShipmentView, 0, len(shipments))
	for _, sh := range shipments {
		views = append(views, newListView(sh))
	}
	return views, total, nil
}

func (s *shipmentService) GetShipment(ctx context.Context, requesterID uuid.UUID, role string, id uuid.UUID) (*ShipmentView, *ServiceError) {
	shipment, svcErr := s.findShipment(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if role == models.RoleCustomer && shipment.CustomerID != requesterID {
		return nil, &ServiceError{StatusCode: 404, Message: "Shipment not found"}
	}
	return newDetailView(shipment), nil
}

// UpdateStatus applies a staff status change, appends a tracking event and
// notifies the customer.
func (s *shipmentService) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateStatusRequest) (*ShipmentView, *ServiceError) {
	if !progress.KnownRawStatus(req.Status) {
		return nil, &ServiceError{StatusCode: 400, Message: "Unknown shipment status: " + req.Status}
	}

	shipment, svcErr := s.findShipment(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if shipment.RawStatus == models.ShipmentStatusCancelled || shipment.RawStatus == models.ShipmentStatusDelivered {
		return nil, &ServiceError{StatusCode: 409, Message: "Shipment is " + shipment.RawStatus + " and can no longer change status"}
	}

	if err := s.shipments.UpdateStatus(ctx, id, req.Status); err != nil {
		s.logger.Error("Failed to update shipment status", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update status"}
	}

	event := &models.ShipmentEvent{
		ShipmentID: id,
		Status:     req.Status,
		Location:   req.Location,
		Note:       req.Note,
		OccurredAt: time.Now(),
	}
	if err := s.shipments.AppendEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to append shipment event", zap.Error(err))
	}

	if req.Status == models.ShipmentStatusDelivered {
		if err := s.shipments.MarkDestinationsDelivered(ctx, id); err != nil {
			s.logger.Warn("Failed to mark destinations delivered", zap.Error(err))
		}
	}

	s.logger.Info("Shipment status updated",
		zap.String("shipment_id", id.String()),
		zap.String("status", req.Status),
	)

	s.notifyStatusChange(ctx, shipment, req.Status)

	updated, svcErr := s.findShipment(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	return newDetailView(updated), nil
}

func (s *shipmentService) notifyStatusChange(ctx context.Context, shipment *models.Shipment, status string) {
	customer, err := s.users.FindByID(ctx, shipment.CustomerID)
	if err != nil {
		s.logger.Warn("Customer lookup failed for status notification", zap.Error(err))
		return
	}

	eventType := models.TypeShipmentStatus
	if status == models.ShipmentStatusDelivered {
		eventType = models.TypeShipmentDelivered
	}
	s.notifier.Publish(ctx, models.EventPayload{
		EventType: eventType,
		UserID:    customer.ID,
		Recipient: customer.Email,
		Data: map[string]interface{}{
			"name":        customer.Name,
			"shipment_id": shipment.ID.String(),
			"status":      status,
		},
	})
}

// UpdateDestinationIDs lets the customer supply Amazon IDs on one
// destination once the invoice is paid. The reference ID must be exactly 8
// alphanumeric characters when provided.
func (s *shipmentService) UpdateDestinationIDs(ctx context.Context, customerID uuid.UUID, shipmentID, destinationID uuid.UUID, req *models.UpdateDestinationIDsRequest) (*ShipmentView, *ServiceError) {
	if req.AmazonReferenceID != "" && !amazonReferenceIDPattern.MatchString(req.AmazonReferenceID) {
		return nil, &ServiceError{StatusCode: 400, Message: "Amazon reference ID must be exactly 8 alphanumeric characters"}
	}

	shipment, svcErr := s.findShipment(ctx, shipmentID)
	if svcErr != nil {
		return nil, svcErr
	}
	if shipment.CustomerID != customerID {
		return nil, &ServiceError{StatusCode: 404, Message: "Shipment not found"}
	}
	if shipment.Invoice == nil || shipment.Invoice.Status != models.InvoiceStatusPaid {
		return nil, &ServiceError{StatusCode: 409, Message: "Shipment IDs can only be provided after the invoice is paid"}
	}

	var dest *models.WarehouseDestination
	for i := range shipment.Destinations {
		if shipment.Destinations[i].ID == destinationID {
			dest = &shipment.Destinations[i]
			break
		}
	}
	if dest == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Destination not found"}
	}

	dest.AmazonShipmentID = req.AmazonShipmentID
	dest.AmazonReferenceID = req.AmazonReferenceID
	if err := s.shipments.UpdateDestination(ctx, dest); err != nil {
		s.logger.Error("Failed to update destination", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save destination"}
	}

	s.logger.Info("Destination IDs updated",
		zap.String("shipment_id", shipmentID.String()),
		zap.String("destination_id", destinationID.String()),
	)

	updated, svcErr := s.findShipment(ctx, shipmentID)
	if svcErr != nil {
		return nil, svcErr
	}
	return newDetailView(updated), nil
}

func (s *shipmentService) findShipment(ctx context.Context, id uuid.UUID) (*models.Shipment, *ServiceError) {
	shipment, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Shipment not found"}
		}
		s.logger.Error("Shipment lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load shipment"}
	}
	return shipment, nil
}
