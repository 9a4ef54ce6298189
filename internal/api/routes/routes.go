// Package routes handles the setup and configuration of API routes
package routes

import (
	_ "milkroute/docs" // Import swagger docs
	"milkroute/internal/api/handlers"
	"milkroute/internal/api/middleware"
	"milkroute/internal/auth"
	"milkroute/internal/config"
	"milkroute/internal/logger"
	"milkroute/internal/metrics"
	"milkroute/internal/repository"
	"milkroute/internal/schedule"
	"milkroute/internal/serviceability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps carries everything the router needs
type Deps struct {
	Config *config.Config
	DB     handlers.Pinger

	Users         repository.UserRepository
	Roles         repository.RoleRepository
	Zones         repository.ZoneRepository
	Subscriptions repository.SubscriptionRepository
	Deliveries    repository.DeliveryRepository

	AuthService *auth.Service
	Directory   *serviceability.Directory // built from Zones when nil
	Calculator  *schedule.Calculator
	Jobs        handlers.JobTrigger
	RateLimiter *middleware.RateLimiter

	Metrics  *metrics.Recorder
	Gatherer prometheus.Gatherer
}

// SetupRoutes configures all API routes and their handlers
func SetupRoutes(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.Get()))

	// Apply compression middleware globally
	r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))

	// Routes without rate limiting
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Apply rate limiting to all other routes
	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewRateLimiter(deps.Config.RateLimit)
	}
	r.Use(rateLimiter.Middleware())

	loc := deps.Config.Schedule.Location()

	directory := deps.Directory
	if directory == nil {
		directory = serviceability.NewDirectory(deps.Zones, deps.Config.Zones.CacheTTL)
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(deps.AuthService, deps.Users)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.DB)
	authHandler := handlers.NewAuthHandler(deps.Users, deps.AuthService)
	userHandler := handlers.NewUserHandler(deps.Roles)
	zoneHandler := handlers.NewZoneHandler(deps.Zones, directory)
	serviceabilityHandler := handlers.NewServiceabilityHandler(directory, deps.Metrics, loc)
	subscriptionHandler := handlers.NewSubscriptionHandler(deps.Subscriptions, deps.Calculator, loc)
	deliveryHandler := handlers.NewDeliveryHandler(deps.Deliveries, loc)
	jobHandler := handlers.NewJobHandler(deps.Jobs)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Health check (no authentication required)
		v1.GET("/health", healthHandler.Health)

		// Storefront lookup (no authentication required)
		v1.POST("/serviceability/check", serviceabilityHandler.Check)

		// Auth routes
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.POST("/logout", authHandler.Logout)
		}

		// Everything below requires a valid access token
		protected := v1.Group("")
		protected.Use(authMiddleware.AuthRequired())

		protected.GET("/users/me", userHandler.GetCurrentUser)
		protected.GET("/roles", authMiddleware.AdminRequired(), userHandler.ListRoles)

		// Zone routes
		zones := protected.Group("/zones")
		{
			zones.GET("", zoneHandler.ListZones)
			zones.GET("/:id", zoneHandler.GetZone)
			zones.GET("/:id/verticals", zoneHandler.GetZoneVerticals)

			// Admin-only routes
			adminZones := zones.Group("")
			adminZones.Use(authMiddleware.AdminRequired())
			{
				adminZones.POST("", zoneHandler.CreateZone)
				adminZones.PUT("/:id", zoneHandler.UpdateZone)
				adminZones.DELETE("/:id", zoneHandler.DeleteZone)
			}
		}

		// Subscription routes
		subscriptions := protected.Group("/subscriptions")
		{
			subscriptions.GET("", subscriptionHandler.ListSubscriptions)
			subscriptions.POST("", subscriptionHandler.CreateSubscription)
			subscriptions.GET("/:id", subscriptionHandler.GetSubscription)
			subscriptions.PUT("/:id", subscriptionHandler.UpdateSubscription)
			subscriptions.PUT("/:id/status", subscriptionHandler.UpdateSubscriptionStatus)
			subscriptions.PUT("/:id/vacation", subscriptionHandler.SetVacation)
			subscriptions.DELETE("/:id/vacation", subscriptionHandler.ClearVacation)
			subscriptions.GET("/:id/calendar", subscriptionHandler.GetCalendar)
			subscriptions.GET("/:id/upcoming", subscriptionHandler.GetUpcomingDeliveries)
		}

		// Delivery routes
		deliveries := protected.Group("/deliveries")
		{
			deliveries.GET("", deliveryHandler.ListDeliveries)
			deliveries.PUT("/:id/status", authMiddleware.AdminRequired(), deliveryHandler.UpdateDeliveryStatus)
		}

		// Job routes
		jobs := protected.Group("/jobs")
		jobs.Use(authMiddleware.AdminRequired())
		{
			jobs.POST("/:name/run", jobHandler.RunJob)
		}
	}

	return r
}
