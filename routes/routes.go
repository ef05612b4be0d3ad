package routes

import (
	"freight-portal/controllers"
	"freight-portal/middleware"
	"freight-portal/models"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything the router wires up.
type Controllers struct {
	Auth          *controllers.AuthController
	Quotes        *controllers.QuoteController
	Shipments     *controllers.ShipmentController
	Invoices      *controllers.InvoiceController
	Documents     *controllers.DocumentController
	Messages      *controllers.MessageController
	Announcements *controllers.AnnouncementController
	Notifications *controllers.NotificationController
}

// Register sets up all portal routes.
func Register(r *gin.Engine, c Controllers) {
	// Public.
	auth := r.Group("/auth")
	auth.POST("/register", c.Auth.Register)
	auth.POST("/login", c.Auth.Login)

	// Signature-verified, not token-authenticated.
	r.POST("/webhooks/stripe", c.Invoices.StripeWebhook)

	api := r.Group("/")
	api.Use(middleware.Authenticate())

	staffOnly := middleware.RequireRoles(models.RoleStaff, models.RoleAdmin)
	customerOnly := middleware.RequireRoles(models.RoleCustomer)

	quotes := api.Group("/quotes")
	quotes.POST("", customerOnly, c.Quotes.RequestQuote)
	quotes.GET("", c.Quotes.ListQuotes)
	quotes.GET("/:id", c.Quotes.GetQuote)
	quotes.PUT("/:id/price", staffOnly, c.Quotes.PriceQuote)
	quotes.POST("/:id/accept", customerOnly, c.Quotes.AcceptQuote)
	quotes.POST("/:id/reject", customerOnly, c.Quotes.RejectQuote)

	shipments := api.Group("/shipments")
	shipments.GET("", c.Shipments.ListShipments)
	shipments.GET("/:id", c.Shipments.GetShipment)
	shipments.PUT("/:id/status", staffOnly, c.Shipments.UpdateStatus)
	shipments.PUT("/:id/destinations/:destination_id/ids", customerOnly, c.Shipments.UpdateDestinationIDs)

	shipments.POST("/:id/invoice", staffOnly, c.Invoices.CreateInvoice)
	shipments.GET("/:id/invoice", c.Invoices.GetInvoice)
	shipments.POST("/:id/invoice/pay", customerOnly, c.Invoices.CreatePaymentIntent)

	shipments.POST("/:id/documents", c.Documents.Upload)
	shipments.GET("/:id/documents", c.Documents.List)
	api.GET("/documents/:id/download", c.Documents.Download)

	messages := api.Group("/messages")
	messages.POST("", c.Messages.Send)
	messages.GET("", c.Messages.Conversation)
	messages.PUT("/:id/read", c.Messages.MarkRead)

	announcements := api.Group("/announcements")
	announcements.GET("", c.Announcements.ListRecent)
	announcements.POST("", staffOnly, c.Announcements.Create)

	api.GET("/notifications", staffOnly, c.Notifications.GetLogs)
}
