package controllers

import (
	"net/http"

	"freight-portal/middleware"
	"freight-portal/models"
	"freight-portal/services"

	"github.com/gin-gonic/gin"
)

// AnnouncementController handles staff broadcasts.
type AnnouncementController struct {
	announcementService services.AnnouncementService
}

func NewAnnouncementController(svc services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{announcementService: svc}
}

// Create handles POST /announcements (staff)
func (ac *AnnouncementController) Create(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	a, svcErr := ac.announcementService.Create(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"announcement": a})
}

// ListRecent handles GET /announcements
func (ac *AnnouncementController) ListRecent(ctx *gin.Context) {
	list, svcErr := ac.announcementService.ListRecent(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"announcements": list})
}
