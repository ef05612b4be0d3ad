package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"freight-portal/models"
	"freight-portal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestShipmentCreate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewShipmentRepository(gormDB)

	shipment := &models.Shipment{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Mode:       models.ModeSea,
		RawStatus:  models.ShipmentStatusBookingConfirmed,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "shipments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(shipment.ID))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), shipment)
	assert.NoError(t, err)
}

func TestShipmentFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewShipmentRepository(gormDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "shipments"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	s, err := repo.FindByID(context.Background(), id)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestShipmentUpdateStatus_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewShipmentRepository(gormDB)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "shipments"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), id, models.ShipmentStatusInTransit)
	assert.NoError(t, err)
}

func TestShipmentAppendEvent_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewShipmentRepository(gormDB)

	event := &models.ShipmentEvent{
		ID:         uuid.New(),
		ShipmentID: uuid.New(),
		Status:     models.ShipmentStatusCustoms,
		Location:   "Shenzhen",
		OccurredAt: time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "shipment_events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(event.ID))
	mock.ExpectCommit()

	err := repo.AppendEvent(context.Background(), event)
	assert.NoError(t, err)
}

func TestShipmentMarkDestinationsDelivered(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewShipmentRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "warehouse_destinations"`)).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	err := repo.MarkDestinationsDelivered(context.Background(), uuid.New())
	assert.NoError(t, err)
}

func TestInvoiceFindByShipmentID_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewInvoiceRepository(gormDB)

	id := uuid.New()
	shipmentID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "shipment_id", "status", "amount_cents", "currency", "created_at", "updated_at"}).
		AddRow(id, shipmentID, models.InvoiceStatusUnpaid, int64(125000), "USD", now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "invoices"`)).
		WillReturnRows(rows)

	inv, err := repo.FindByShipmentID(context.Background(), shipmentID)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusUnpaid, inv.Status)
	assert.Equal(t, int64(125000), inv.AmountCents)
}

func TestInvoiceUpdate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewInvoiceRepository(gormDB)

	now := time.Now()
	invoice := &models.Invoice{
		ID:         uuid.New(),
		ShipmentID: uuid.New(),
		Status:     models.InvoiceStatusPaid,
		PaidAt:     &now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "invoices"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), invoice)
	assert.NoError(t, err)
}
