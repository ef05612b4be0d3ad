package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"freight-portal/middleware"
	"freight-portal/models"
	"freight-portal/progress"
	"freight-portal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mock Service ---
type MockShipmentService struct {
	mock.Mock
}

func (m *MockShipmentService) ListShipments(ctx context.Context, requesterID uuid.UUID, role string, page, limit int) ([]services.ShipmentView, int64, *services.ServiceError) {
	args := m.Called(ctx, requesterID, role, page, limit)
	if args.Get(2) != nil {
		return nil, 0, args.Get(2).(*services.ServiceError)
	}
	return args.Get(0).([]services.ShipmentView), args.Get(1).(int64), nil
}

func (m *MockShipmentService) GetShipment(ctx context.Context, requesterID uuid.UUID, role string, id uuid.UUID) (*services.ShipmentView, *services.ServiceError) {
	args := m.Called(ctx, requesterID, role, id)
	if args.Get(1) != nil {
		return nil, args.Get(1).(*services.ServiceError)
	}
	return args.Get(0).(*services.ShipmentView), nil
}

func (m *MockShipmentService) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateStatusRequest) (*services.ShipmentView, *services.ServiceError) {
	args := m.Called(ctx, id, req)
	if args.Get(1) != nil {
		return nil, args.Get(1).(*services.ServiceError)
	}
	return args.Get(0).(*services.ShipmentView), nil
}

func (m *MockShipmentService) UpdateDestinationIDs(ctx context.Context, customerID uuid.UUID, shipmentID, destinationID uuid.UUID, req *models.UpdateDestinationIDsRequest) (*services.ShipmentView, *services.ServiceError) {
	args := m.Called(ctx, customerID, shipmentID, destinationID, req)
	if args.Get(1) != nil {
		return nil, args.Get(1).(*services.ServiceError)
	}
	return args.Get(0).(*services.ShipmentView), nil
}

// identity stub standing in for the JWT middleware
func withIdentity(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserContextKey, userID)
		c.Set(middleware.RoleContextKey, role)
		c.Next()
	}
}

// --- Tests ---

func TestGetShipmentController(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	shipmentID := uuid.New()

	t.Run("Success - 200 OK", func(t *testing.T) {
		mockService := new(MockShipmentService)
		controller := NewShipmentController(mockService)

		view := &services.ShipmentView{
			Shipment: models.Shipment{ID: shipmentID, CustomerID: userID, RawStatus: models.ShipmentStatusInTransit},
			Progress: progress.Derived{Label: progress.LabelInProgress, Percent: 80},
		}
		mockService.On("GetShipment", mock.Anything, userID, models.RoleCustomer, shipmentID).Return(view, nil).Once()

		router := gin.New()
		router.GET("/shipments/:id", withIdentity(userID, models.RoleCustomer), controller.GetShipment)

		req, _ := http.NewRequest(http.MethodGet, "/shipments/"+shipmentID.String(), nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"label":"In Progress"`)
		assert.Contains(t, recorder.Body.String(), `"percent":80`)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - Not Found - 404", func(t *testing.T) {
		mockService := new(MockShipmentService)
		controller := NewShipmentController(mockService)
		mockService.On("GetShipment", mock.Anything, userID, models.RoleCustomer, shipmentID).
			Return(nil, &services.ServiceError{StatusCode: 404, Message: "Shipment not found"}).Once()

		router := gin.New()
		router.GET("/shipments/:id", withIdentity(userID, models.RoleCustomer), controller.GetShipment)

		req, _ := http.NewRequest(http.MethodGet, "/shipments/"+shipmentID.String(), nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - Bad ID - 400", func(t *testing.T) {
		mockService := new(MockShipmentService)
		controller := NewShipmentController(mockService)

		router := gin.New()
		router.GET("/shipments/:id", withIdentity(userID, models.RoleCustomer), controller.GetShipment)

		req, _ := http.NewRequest(http.MethodGet, "/shipments/not-a-uuid", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "GetShipment")
	})

	t.Run("Failure - No Identity - 401", func(t *testing.T) {
		mockService := new(MockShipmentService)
		controller := NewShipmentController(mockService)

		router := gin.New()
		router.GET("/shipments/:id", controller.GetShipment)

		req, _ := http.NewRequest(http.MethodGet, "/shipments/"+shipmentID.String(), nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestUpdateStatusController(t *testing.T) {
	gin.SetMode(gin.TestMode)

	staffID := uuid.New()
	shipmentID := uuid.New()

	t.Run("Success - 200 OK", func(t *testing.T) {
		mockService := new(MockShipmentService)
		controller := NewShipmentController(mockService)

		view := &services.ShipmentView{
			Shipment: models.Shipment{ID: shipmentID, RawStatus: models.ShipmentStatusInTransit},
			Progress: progress.Derived{Label: progress.LabelInProgress, Percent: 80},
		}
		mockService.On("UpdateStatus", mock.Anything, shipmentID, &models.UpdateStatusRequest{
			Status:   models.ShipmentStatusInTransit,
			Location: "Port of Ningbo",
		}).Return(view, nil).Once()

		router := gin.New()
		router.PUT("/shipments/:id/status", withIdentity(staffID, models.RoleStaff), controller.UpdateStatus)

		payload := `{"status": "In Transit", "location": "Port of Ningbo"}`
		req, _ := http.NewRequest(http.MethodPut, "/shipments/"+shipmentID.String()+"/status", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure - Missing status - 400", func(t *testing.T) {
		mockService := new(MockShipmentService)
		controller := NewShipmentController(mockService)

		router := gin.New()
		router.PUT("/shipments/:id/status", withIdentity(staffID, models.RoleStaff), controller.UpdateStatus)

		req, _ := http.NewRequest(http.MethodPut, "/shipments/"+shipmentID.String()+"/status", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "UpdateStatus")
	})
}
