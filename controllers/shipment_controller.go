package controllers

import (
	"net/http"

	"freight-portal/middleware"
	"freight-portal/models"
	"freight-portal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ShipmentController handles HTTP requests for shipments and their derived
// progress.
type ShipmentController struct {
	shipmentService services.ShipmentService
}

func NewShipmentController(svc services.ShipmentService) *ShipmentController {
	return &ShipmentController{shipmentService: svc}
}

// ListShipments handles GET /shipments
func (sc *ShipmentController) ListShipments(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, limit := parsePaginationParams(ctx)
	shipments, total, svcErr := sc.shipmentService.ListShipments(ctx.Request.Context(), userID, middleware.GetRole(ctx), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"shipments": shipments, "total": total, "page": page, "limit": limit})
}

// GetShipment handles GET /shipments/:id
func (sc *ShipmentController) GetShipment(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipment ID"})
		return
	}

	view, svcErr := sc.shipmentService.GetShipment(ctx.Request.Context(), userID, middleware.GetRole(ctx), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"shipment": view})
}

// UpdateStatus handles PUT /shipments/:id/status (staff)
func (sc *ShipmentController) UpdateStatus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipment ID"})
		return
	}

	var req models.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	view, svcErr := sc.shipmentService.UpdateStatus(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"shipment": view})
}

// UpdateDestinationIDs handles PUT /shipments/:id/destinations/:destination_id/ids
func (sc *ShipmentController) UpdateDestinationIDs(ctx *gin.Context) {
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
	destinationID, err := uuid.Parse(ctx.Param("destination_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid destination ID"})
		return
	}

	var req models.UpdateDestinationIDsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	view, svcErr := sc.shipmentService.UpdateDestinationIDs(ctx.Request.Context(), userID, shipmentID, destinationID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"shipment": view})
}
