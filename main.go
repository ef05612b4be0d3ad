package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"freight-portal/awsx"
	"freight-portal/cache"
	"freight-portal/consumer"
	"freight-portal/controllers"
	"freight-portal/database"
	"freight-portal/middleware"
	"freight-portal/repository"
	"freight-portal/routes"
	"freight-portal/sender"
	servicepkg "freight-portal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET not set")
	}

	if err := database.Connect(logger); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close() //nolint:errcheck

	// AWS clients. The portal runs without them; publishing and metrics
	// degrade to no-ops.
	var (
		snsClient     awsx.SNSPublisher
		objectStore   awsx.ObjectStore
		metricsClient *awsx.MetricsClient
		notifQueue    *awsx.SQSQueue
	)
	awsCfg, awsErr := awsx.LoadConfig(context.Background())
	if awsErr != nil {
		logger.Warn("AWS config unavailable, SNS/S3/SQS disabled", zap.Error(awsErr))
	} else {
		snsClient = awsx.NewSNSClient(awsCfg)
		objectStore = awsx.NewS3Store(awsCfg)
		if cfg.SQSQueueURL != "" {
			notifQueue = awsx.NewSQSQueue(awsCfg, cfg.SQSQueueURL)
		}
		if mc, err := awsx.NewMetricsClient(context.Background()); err == nil {
			metricsClient = mc
		} else {
			logger.Warn("CloudWatch metrics unavailable", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Warn("Redis unavailable, announcement cache disabled", zap.Error(err))
		redisClient = nil
	}

	// Repositories.
	userRepo := repository.NewUserRepository(database.DB)
	quoteRepo := repository.NewQuoteRepository(database.DB)
	shipmentRepo := repository.NewShipmentRepository(database.DB)
	invoiceRepo := repository.NewInvoiceRepository(database.DB)
	documentRepo := repository.NewDocumentRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)
	announcementRepo := repository.NewAnnouncementRepository(database.DB)
	notificationRepo := repository.NewNotificationRepository(database.DB)

	// Services.
	notifier := servicepkg.NewNotifier(snsClient, cfg.SNSTopicARN, logger)
	stripeSvc := servicepkg.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	authService := servicepkg.NewAuthService(userRepo, notifier, logger)
	quoteService := servicepkg.NewQuoteService(quoteRepo, shipmentRepo, userRepo, notifier, logger)
	shipmentService := servicepkg.NewShipmentService(shipmentRepo, userRepo, notifier, logger)
	invoiceService := servicepkg.NewInvoiceService(invoiceRepo, shipmentRepo, userRepo, stripeSvc, notifier, logger)
	documentService := servicepkg.NewDocumentService(documentRepo, shipmentRepo, objectStore, cfg.DocumentsBucket, logger)
	messageService := servicepkg.NewMessageService(messageRepo, logger)
	announcementService := servicepkg.NewAnnouncementService(announcementRepo, redisClient, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit())
	r.Use(middleware.Metrics(metricsClient))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 30-second request timeout.
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "freight-portal"})
	})

	// Notification pipeline: SNS → SQS → email. Started only when the queue
	// and an SMTP relay are configured.
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	var notificationService servicepkg.NotificationService
	if notifQueue != nil {
		emailSender, err := sender.NewSMTPSender()
		if err != nil {
			logger.Warn("SMTP not configured, notification consumer disabled", zap.Error(err))
		} else {
			notificationService, err = servicepkg.NewNotificationService(notificationRepo, emailSender, metricsClient, logger)
			if err != nil {
				logger.Fatal("Failed to init notification service", zap.Error(err))
			}
			go consumer.NewSQSConsumer(notifQueue, notificationService, logger).Start(consumerCtx)
		}
	}
	if notificationService == nil {
		// Admin log listing still works without the consumer.
		var err error
		notificationService, err = servicepkg.NewNotificationService(notificationRepo, nil, metricsClient, logger)
		if err != nil {
			logger.Fatal("Failed to init notification service", zap.Error(err))
		}
	}

	routes.Register(r, routes.Controllers{
		Auth:          controllers.NewAuthController(authService),
		Quotes:        controllers.NewQuoteController(quoteService),
		Shipments:     controllers.NewShipmentController(shipmentService),
		Invoices:      controllers.NewInvoiceController(invoiceService, stripeSvc, logger),
		Documents:     controllers.NewDocumentController(documentService),
		Messages:      controllers.NewMessageController(messageService),
		Announcements: controllers.NewAnnouncementController(announcementService),
		Notifications: controllers.NewNotificationController(notificationService, logger),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Freight portal started", zap.String("port", cfg.Port))
	<-quit
	logger.Info("Shutting down...")

	stopConsumer()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited cleanly")
}

func allowedOrigins() []string {
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if o := strings.TrimSpace(strings.TrimSuffix(p, "/")); o != "" {
				origins = append(origins, o)
			}
		}
		return origins
	}
	return []string{"http://localhost:3000", "http://localhost:5173"}
}
