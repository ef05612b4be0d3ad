package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"freight-portal/awsx"
	"freight-portal/models"
	"freight-portal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const presignExpiry = 15 * time.Minute

// DocumentDownload pairs a document with its presigned URL.
type DocumentDownload struct {
	Document models.Document `json:"document"`
	URL      string          `json:"url"`
	Expires  time.Time       `json:"expires"`
}

// DocumentService stores shipment files in S3 and hands out time-limited
// download links. Customers only see documents on their own shipments.
type DocumentService interface {
	Upload(ctx context.Context, requesterID uuid.UUID, role string, shipmentID uuid.UUID, fileName, contentType string, size int64, body io.Reader) (*models.Document, *ServiceError)
	List(ctx context.Context, requesterID uuid.UUID, role string, shipmentID uuid.UUID) ([]models.Document, *ServiceError)
	Download(ctx context.Context, requesterID uuid.UUID, role string, id uuid.UUID) (*DocumentDownload, *ServiceError)
}

type documentService struct {
	documents repository.DocumentRepository
	shipments repository.ShipmentRepository
	store     awsx.ObjectStore
	bucket    string
	logger    *zap.Logger
}

func NewDocumentService(
	documents repository.DocumentRepository,
	shipments repository.ShipmentRepository,
	store awsx.ObjectStore,
	bucket string,
	logger *zap.Logger,
) DocumentService {
	return &documentService{
		documents: documents,
		shipments: shipments,
		store:     store,
		bucket:    bucket,
		logger:    logger,
	}
}

func (s *documentService) Upload(ctx context.Context, requesterID uuid.UUID, role string, shipmentID uuid.UUID, fileName, contentType string, size int64, body io.Reader) (*models.Document, *ServiceError) {
	if s.store == nil {
		return nil, &ServiceError{StatusCode: 503, Message: "Document storage is unavailable"}
	}
	if svcErr := s.authorizeShipment(ctx, requesterID, role, shipmentID); svcErr != nil {
		return nil, svcErr
	}

	// Key carries a fresh UUID so repeated uploads of the same file name
	// never overwrite each other.
	key := fmt.Sprintf("shipments/%s/%s%s", shipmentID, uuid.New(), filepath.Ext(fileName))
	if err := s.store.Upload(ctx, s.bucket, key, contentType, body); err != nil {
		s.logger.Error("Document upload failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to store file"}
	}

	doc := &models.Document{
		ShipmentID:  shipmentID,
		UploaderID:  requesterID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		S3Key:       key,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to persist document metadata", zap.Error(err))
		if delErr := s.store.Delete(ctx, s.bucket, key); delErr != nil {
			s.logger.Warn("Orphaned object after metadata failure",
				zap.String("key", key), zap.Error(delErr))
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to save document"}
	}

	s.logger.Info("Document uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("shipment_id", shipmentID.String()),
		zap.String("file_name", fileName),
	)
	return doc, nil
}

func (s *documentService) List(ctx context.Context, requesterID uuid.UUID, role string, shipmentID uuid.UUID) ([]models.Document, *ServiceError) {
	if svcErr := s.authorizeShipment(ctx, requesterID, role, shipmentID); svcErr != nil {
		return nil, svcErr
	}

	docs, err := s.documents.FindByShipment(ctx, shipmentID)
	if err != nil {
		s.logger.Error("Failed to list documents", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list documents"}
	}
	return docs, nil
}

func (s *documentService) Download(ctx context.Context, requesterID uuid.UUID, role string, id uuid.UUID) (*DocumentDownload, *ServiceError) {
	if s.store == nil {
		return nil, &ServiceError{StatusCode: 503, Message: "Document storage is unavailable"}
	}
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ServiceError{StatusCode: 404, Message: "Document not found"}
		}
		s.logger.Error("Document lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load document"}
	}

	if svcErr := s.authorizeShipment(ctx, requesterID, role, doc.ShipmentID); svcErr != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Document not found"}
	}

	url, err := s.store.PresignGetURL(ctx, s.bucket, doc.S3Key, presignExpiry)
	if err != nil {
		s.logger.Error("Presign failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to generate download link"}
	}

	return &DocumentDownload{
		Document: *doc,
		URL:      url,
		Expires:  time.Now().Add(presignExpiry),
	}, nil
}

func (s *documentService) authorizeShipment(ctx context.Context, requesterID uuid.UUID, role string, shipmentID uuid.UUID) *ServiceError {
	shipment, err := s.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &ServiceError{StatusCode: 404, Message: "Shipment not found"}
		}
		s.logger.Error("Shipment lookup failed", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to load shipment"}
	}
	if role == models.RoleCustomer && shipment.CustomerID != requesterID {
		return &ServiceError{StatusCode: 404, Message: "Shipment not found"}
	}
	return nil
}
