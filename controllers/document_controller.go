package controllers

import (
	"net/http"

	"freight-portal/middleware"
	"freight-portal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 25 MB cap on document uploads.
const maxDocumentSize = 25 << 20

// DocumentController handles shipment document uploads and downloads.
type DocumentController struct {
	documentService services.DocumentService
}

func NewDocumentController(svc services.DocumentService) *DocumentController {
	return &DocumentController{documentService: svc}
}

// Upload handles POST /shipments/:id/documents (multipart form, field "file")
func (dc *DocumentController) Upload(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shipmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipment ID"})
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxDocumentSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds 25 MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	doc, svcErr := dc.documentService.Upload(
		ctx.Request.Context(),
		userID,
		middleware.GetRole(ctx),
		shipmentID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"document": doc})
}

// List handles GET /shipments/:id/documents
func (dc *DocumentController) List(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	shipmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipment ID"})
		return
	}

	docs, svcErr := dc.documentService.List(ctx.Request.Context(), userID, middleware.GetRole(ctx), shipmentID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"documents": docs})
}

// Download handles GET /documents/:id/download
func (dc *DocumentController) Download(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	download, svcErr := dc.documentService.Download(ctx.Request.Context(), userID, middleware.GetRole(ctx), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, download)
}
