package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"freight-portal/models"
	"freight-portal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ---- mock invoice repository ----

type mockInvoiceRepo struct {
	created          *models.Invoice
	createErr        error
	byShipment       *models.Invoice
	byShipmentErr    error
	byIntent         *models.Invoice
	byIntentErr      error
	updatedInvoice   *models.Invoice
	updateErr        error
	updateCallsCount int
}

func (m *mockInvoiceRepo) Create(_ context.Context, inv *models.Invoice) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = inv
	return nil
}
func (m *mockInvoiceRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Invoice, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockInvoiceRepo) FindByShipmentID(_ context.Context, _ uuid.UUID) (*models.Invoice, error) {
	return m.byShipment, m.byShipmentErr
}
func (m *mockInvoiceRepo) FindByPaymentIntentID(_ context.Context, _ string) (*models.Invoice, error) {
	return m.byIntent, m.byIntentErr
}
func (m *mockInvoiceRepo) Update(_ context.Context, inv *models.Invoice) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedInvoice = inv
	m.updateCallsCount++
	return nil
}

// ---- mock payment gateway ----

type mockGateway struct {
	intentID     string
	clientSecret string
	err          error
	lastAmount   int64
	lastCurrency string
}

func (m *mockGateway) CreatePaymentIntent(amountCents int64, currency string, _ map[string]string) (string, string, error) {
	m.lastAmount = amountCents
	m.lastCurrency = currency
	return m.intentID, m.clientSecret, m.err
}

func (m *mockGateway) ParseWebhook(_ *http.Request) (stripe.Event, error) {
	return stripe.Event{}, nil
}

func newInvoiceService(invoices *mockInvoiceRepo, shipments *mockShipmentRepo, gateway *mockGateway) services.InvoiceService {
	return services.NewInvoiceService(invoices, shipments, &mockUserRepo{user: &models.User{ID: uuid.New(), Email: "c@example.com"}}, gateway, nil, zap.NewNop())
}

func TestCreateInvoice(t *testing.T) {
	customerID := uuid.New()

	t.Run("success", func(t *testing.T) {
		shipment := newShipmentFixture(customerID)
		invoices := &mockInvoiceRepo{byShipmentErr: gorm.ErrRecordNotFound}
		svc := newInvoiceService(invoices, &mockShipmentRepo{findByIDShipment: shipment}, &mockGateway{})

		inv, svcErr := svc.CreateInvoice(context.Background(), shipment.ID, &models.CreateInvoiceRequest{
			AmountCents: 125000,
			Currency:    "USD",
		})
		require.Nil(t, svcErr)
		assert.Equal(t, models.InvoiceStatusUnpaid, inv.Status)
		assert.Equal(t, int64(125000), inv.AmountCents)
		assert.NotNil(t, invoices.created)
	})

	t.Run("second invoice conflicts", func(t *testing.T) {
		shipment := newShipmentFixture(customerID)
		invoices := &mockInvoiceRepo{byShipment: shipment.Invoice}
		svc := newInvoiceService(invoices, &mockShipmentRepo{findByIDShipment: shipment}, &mockGateway{})

		_, svcErr := svc.CreateInvoice(context.Background(), shipment.ID, &models.CreateInvoiceRequest{
			AmountCents: 125000,
			Currency:    "USD",
		})
		require.NotNil(t, svcErr)
		assert.Equal(t, 409, svcErr.StatusCode)
	})

	t.Run("shipment not found", func(t *testing.T) {
		invoices := &mockInvoiceRepo{byShipmentErr: gorm.ErrRecordNotFound}
		svc := newInvoiceService(invoices, &mockShipmentRepo{findByIDErr: gorm.ErrRecordNotFound}, &mockGateway{})

		_, svcErr := svc.CreateInvoice(context.Background(), uuid.New(), &models.CreateInvoiceRequest{
			AmountCents: 1000,
			Currency:    "USD",
		})
		require.NotNil(t, svcErr)
		assert.Equal(t, 404, svcErr.StatusCode)
	})
}

func TestCreatePaymentIntent(t *testing.T) {
	customerID := uuid.New()

	t.Run("stores intent ID", func(t *testing.T) {
		shipment := newShipmentFixture(customerID)
		invoice := &models.Invoice{
			ID:          uuid.New(),
			ShipmentID:  shipment.ID,
			Status:      models.InvoiceStatusUnpaid,
			AmountCents: 50000,
			Currency:    "USD",
		}
		invoices := &mockInvoiceRepo{byShipment: invoice}
		gateway := &mockGateway{intentID: "pi_123", clientSecret: "pi_123_secret"}
		svc := newInvoiceService(invoices, &mockShipmentRepo{findByIDShipment: shipment}, gateway)

		resp, svcErr := svc.CreatePaymentIntent(context.Background(), customerID, shipment.ID)
		require.Nil(t, svcErr)
		assert.Equal(t, "pi_123_secret", resp.ClientSecret)
		assert.Equal(t, int64(50000), gateway.lastAmount)
		require.NotNil(t, invoices.updatedInvoice)
		assert.Equal(t, "pi_123", invoices.updatedInvoice.StripePaymentIntentID)
	})

	t.Run("paid invoice conflicts", func(t *testing.T) {
		shipment := newShipmentFixture(customerID)
		invoices := &mockInvoiceRepo{byShipment: shipment.Invoice} // fixture invoice is paid
		svc := newInvoiceService(invoices, &mockShipmentRepo{findByIDShipment: shipment}, &mockGateway{})

		_, svcErr := svc.CreatePaymentIntent(context.Background(), customerID, shipment.ID)
		require.NotNil(t, svcErr)
		assert.Equal(t, 409, svcErr.StatusCode)
	})

	t.Run("other customer gets 404", func(t *testing.T) {
		shipment := newShipmentFixture(customerID)
		svc := newInvoiceService(&mockInvoiceRepo{}, &mockShipmentRepo{findByIDShipment: shipment}, &mockGateway{})

		_, svcErr := svc.CreatePaymentIntent(context.Background(), uuid.New(), shipment.ID)
		require.NotNil(t, svcErr)
		assert.Equal(t, 404, svcErr.StatusCode)
	})

	t.Run("gateway failure surfaces 502", func(t *testing.T) {
		shipment := newShipmentFixture(customerID)
		invoice := &models.Invoice{ShipmentID: shipment.ID, Status: models.InvoiceStatusUnpaid, AmountCents: 100, Currency: "USD"}
		gateway := &mockGateway{err: errors.New("stripe down")}
		svc := newInvoiceService(&mockInvoiceRepo{byShipment: invoice}, &mockShipmentRepo{findByIDShipment: shipment}, gateway)

		_, svcErr := svc.CreatePaymentIntent(context.Background(), customerID, shipment.ID)
		require.NotNil(t, svcErr)
		assert.Equal(t, 502, svcErr.StatusCode)
	})
}

func TestHandlePaymentSucceeded(t *testing.T) {
	customerID := uuid.New()

	t.Run("marks invoice paid once", func(t *testing.T) {
		shipment := newShipmentFixture(customerID)
		invoice := &models.Invoice{
			ID:                    uuid.New(),
			ShipmentID:            shipment.ID,
			Status:                models.InvoiceStatusUnpaid,
			AmountCents:           50000,
			Currency:              "USD",
			StripePaymentIntentID: "pi_123",
		}
		invoices := &mockInvoiceRepo{byIntent: invoice}
		svc := newInvoiceService(invoices, &mockShipmentRepo{findByIDShipment: shipment}, &mockGateway{})

		svcErr := svc.HandlePaymentSucceeded(context.Background(), "pi_123")
		require.Nil(t, svcErr)
		require.NotNil(t, invoices.updatedInvoice)
		assert.Equal(t, models.InvoiceStatusPaid, invoices.updatedInvoice.Status)
		assert.NotNil(t, invoices.updatedInvoice.PaidAt)
	})

	t.Run("duplicate webhook is a no-op", func(t *testing.T) {
		invoice := &models.Invoice{
			ID:                    uuid.New(),
			Status:                models.InvoiceStatusPaid,
			StripePaymentIntentID: "pi_123",
		}
		invoices := &mockInvoiceRepo{byIntent: invoice}
		svc := newInvoiceService(invoices, &mockShipmentRepo{}, &mockGateway{})

		svcErr := svc.HandlePaymentSucceeded(context.Background(), "pi_123")
		require.Nil(t, svcErr)
		assert.Equal(t, 0, invoices.updateCallsCount)
	})

	t.Run("unknown intent", func(t *testing.T) {
		invoices := &mockInvoiceRepo{byIntentErr: gorm.ErrRecordNotFound}
		svc := newInvoiceService(invoices, &mockShipmentRepo{}, &mockGateway{})

		svcErr := svc.HandlePaymentSucceeded(context.Background(), "pi_missing")
		require.NotNil(t, svcErr)
		assert.Equal(t, 404, svcErr.StatusCode)
	})
}
