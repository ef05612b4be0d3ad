package controllers

import (
	"encoding/json"
	"net/http"

	"freight-portal/middleware"
	"freight-portal/models"
	"freight-portal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// InvoiceController handles invoicing and Stripe payment endpoints.
type InvoiceController struct {
	invoiceService services.InvoiceService
	gateway        services.PaymentGateway
	logger         *zap.Logger
}

func NewInvoiceController(svc services.InvoiceService, gateway services.PaymentGateway, logger *zap.Logger) *InvoiceController {
	return &InvoiceController{invoiceService: svc, gateway: gateway, logger: logger}
}

// CreateInvoice handles POST /shipments/:id/invoice (staff)
func (ic *InvoiceController) CreateInvoice(ctx *gin.Context) {
	shipmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipment ID"})
		return
	}

	var req models.CreateInvoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	invoice, svcErr := ic.invoiceService.CreateInvoice(ctx.Request.Context(), shipmentID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

// GetInvoice handles GET /shipments/:id/invoice
func (ic *InvoiceController) GetInvoice(ctx *gin.Context) {
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

	invoice, svcErr := ic.invoiceService.GetInvoice(ctx.Request.Context(), userID, middleware.GetRole(ctx), shipmentID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// CreatePaymentIntent handles POST /shipments/:id/invoice/pay
func (ic *InvoiceController) CreatePaymentIntent(ctx *gin.Context) {
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

	resp, svcErr := ic.invoiceService.CreatePaymentIntent(ctx.Request.Context(), userID, shipmentID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// StripeWebhook handles POST /webhooks/stripe. Unauthenticated; trust comes
// from the signature check.
func (ic *InvoiceController) StripeWebhook(ctx *gin.Context) {
	event, err := ic.gateway.ParseWebhook(ctx.Request)
	if err != nil {
		ic.logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	ic.logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			ic.logger.Error("Failed to unmarshal payment intent", zap.Error(err))
			break
		}
		if svcErr := ic.invoiceService.HandlePaymentSucceeded(ctx.Request.Context(), pi.ID); svcErr != nil {
			ic.logger.Error("Failed to apply payment",
				zap.String("payment_intent_id", pi.ID),
				zap.String("reason", svcErr.Message),
			)
		}
	default:
		ic.logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "received"})
}
