package controllers

import (
	"net/http"

	"freight-portal/middleware"
	"freight-portal/models"
	"freight-portal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MessageController handles the customer-staff messaging endpoints.
type MessageController struct {
	messageService services.MessageService
}

func NewMessageController(svc services.MessageService) *MessageController {
	return &MessageController{messageService: svc}
}

// Send handles POST /messages
func (mc *MessageController) Send(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	msg, svcErr := mc.messageService.Send(ctx.Request.Context(), userID, middleware.GetRole(ctx), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": msg})
}

// Conversation handles GET /messages?customer_id=&shipment_id=
func (mc *MessageController) Conversation(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var customerID uuid.UUID
	if raw := ctx.Query("customer_id"); raw != "" {
		customerID, err = uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
			return
		}
	}

	var shipmentID *uuid.UUID
	if raw := ctx.Query("shipment_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipment ID"})
			return
		}
		shipmentID = &id
	}

	page, limit := parsePaginationParams(ctx)
	msgs, total, svcErr := mc.messageService.Conversation(ctx.Request.Context(), userID, middleware.GetRole(ctx), customerID, shipmentID, page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"messages": msgs, "total": total, "page": page, "limit": limit})
}

// MarkRead handles PUT /messages/:id/read
func (mc *MessageController) MarkRead(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	if svcErr := mc.messageService.MarkRead(ctx.Request.Context(), userID, id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "read"})
}
