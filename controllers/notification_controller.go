package controllers

import (
	"net/http"
	"strconv"

	"freight-portal/models"
	"freight-portal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationController exposes the delivery log to admins.
type NotificationController struct {
	notificationService services.NotificationService
	logger              *zap.Logger
}

func NewNotificationController(svc services.NotificationService, logger *zap.Logger) *NotificationController {
	return &NotificationController{notificationService: svc, logger: logger}
}

// GetLogs handles GET /notifications?user_id=&status=&type=&page=&page_size=
func (nc *NotificationController) GetLogs(ctx *gin.Context) {
	filter := models.NotificationFilter{
		Status: ctx.Query("status"),
		Type:   ctx.Query("type"),
	}

	if raw := ctx.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		filter.UserID = id
	}
	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil {
		filter.Page = p
	}
	if ps, err := strconv.Atoi(ctx.DefaultQuery("page_size", "10")); err == nil {
		filter.PageSize = ps
	}

	logs, total, err := nc.notificationService.GetLogs(ctx.Request.Context(), filter)
	if err != nil {
		nc.logger.Error("Failed to list notification logs", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"notifications": logs, "total": total})
}
