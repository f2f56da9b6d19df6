package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"servicehub-server/config"
	"servicehub-server/database"
	"servicehub-server/jobs"
	"servicehub-server/middleware"
	"servicehub-server/models"
	"servicehub-server/routes"
	"servicehub-server/services"
	"servicehub-server/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize logger
	utils.InitLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	// Initialize database (runs migrations)
	if err := database.Initialize(); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	// Seed admin account and the default category catalog
	if err := seedDatabase(database.DB); err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}

	// Wire services; booking cancellation flags successful payments for refund
	jwtSvc := services.NewJWTService(database.DB)
	bookingSvc := services.NewBookingService(database.DB)
	paymentSvc := services.NewPaymentService(database.DB, services.NewSimulatedGateway())
	bookingSvc.OnCancelled(paymentSvc.MarkRefundEligible)

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security and observability middleware stack
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.InputValidationMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestLoggerMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "ServiceHub server is running",
			"time":    time.Now().UTC(),
		})
	})

	// API routes
	api := router.Group("/api")
	{
		// Auth routes with strict rate limiting
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes, jwtSvc)

		// Public catalog
		routes.RegisterCategoryRoutes(api)
		providerRoutes := api.Group("/providers")
		routes.RegisterPublicProviderRoutes(providerRoutes)

		// Customer routes
		userRoutes := api.Group("/user")
		userRoutes.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleUser, models.RoleAdmin))
		{
			routes.RegisterBookingRoutes(userRoutes.Group("/bookings"), bookingSvc)
			routes.RegisterPaymentRoutes(userRoutes.Group("/payments"), paymentSvc)
			routes.RegisterReviewRoutes(userRoutes.Group("/reviews"), bookingSvc)
			routes.RegisterAddressRoutes(userRoutes.Group("/addresses"))
		}

		// Provider panel
		providerPanel := api.Group("/provider")
		providerPanel.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleProvider))
		routes.RegisterProviderPanelRoutes(providerPanel, bookingSvc)

		// Admin surface
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
		routes.RegisterAdminRoutes(adminRoutes, bookingSvc)
	}

	// Background jobs
	cleanupJob := jobs.NewTokenCleanupJob(jwtSvc)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	// Start server
	addr := ":" + config.AppConfig.Server.Port
	logger.Info("starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
