// Package main provides the entry point for the MilkRoute API server
// @title MilkRoute API
// @version 1.0
// @description Subscription delivery backend: zone serviceability, delivery calendars and daily delivery runs.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication
// @Security BearerAuth
package main

import (
	"context"
	"flag"
	"log"
	"milkroute/internal/api/middleware"
	"milkroute/internal/api/routes"
	"milkroute/internal/api/server"
	"milkroute/internal/auth"
	"milkroute/internal/config"
	"milkroute/internal/database"
	"milkroute/internal/jobs"
	"milkroute/internal/logger"
	"milkroute/internal/metrics"
	"milkroute/internal/repository/postgres"
	"milkroute/internal/schedule"
	"milkroute/internal/serviceability"
	"milkroute/internal/validation"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Parse command line flags
	envFile := flag.String("env", ".env", "Path to env file")
	flag.Parse()

	// Load environment file
	if err := godotenv.Load(*envFile); err != nil && *envFile == ".env" {
		log.Printf("Warning: %v", err)
	}

	// Load configuration
	cfg := &config.Config{}
	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	appLog := logger.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database and run migrations
	db, err := database.SetupDatabase(cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to set up database")
	}
	defer db.Close()

	// Initialize validators
	validation.Initialize()

	users := postgres.NewUserRepository(db)
	roles := postgres.NewRoleRepository(db)
	refreshTokens := postgres.NewRefreshTokenRepository(db)
	zones := postgres.NewZoneRepository(db)
	subscriptions := postgres.NewSubscriptionRepository(db)
	deliveries := postgres.NewDeliveryRepository(db)

	authService := auth.NewService(cfg.Auth, refreshTokens)
	if err := authService.EnsureAdmin(ctx, cfg.Admin, users, roles); err != nil {
		appLog.WithError(err).Fatal("Failed to bootstrap admin account")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.NewRecorder(reg)

	loc := cfg.Schedule.Location()
	directory := serviceability.NewDirectory(zones, cfg.Zones.CacheTTL)
	calculator := schedule.NewCalculator(cfg.Schedule.LookaheadDays)

	// Initialize job manager
	jobManager := jobs.NewManager(rec)
	jobManager.Register(jobs.NewDeliveryRunJob(subscriptions, deliveries, cfg.Jobs, loc, rec))
	jobManager.Register(jobs.NewTokenCleanupJob(refreshTokens, cfg.Jobs))

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		if err := jobManager.Start(ctx); err != nil {
			appLog.WithError(err).Error("Job scheduler stopped")
		}
	}()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	go rateLimiter.StartCleanup(ctx)

	router := routes.SetupRoutes(routes.Deps{
		Config:        cfg,
		DB:            db,
		Users:         users,
		Roles:         roles,
		Zones:         zones,
		Subscriptions: subscriptions,
		Deliveries:    deliveries,
		AuthService:   authService,
		Directory:     directory,
		Calculator:    calculator,
		Jobs:          jobManager,
		RateLimiter:   rateLimiter,
		Metrics:       rec,
		Gatherer:      reg,
	})

	if err := server.New(cfg.API, router).Run(ctx); err != nil {
		appLog.WithError(err).Error("Server stopped with error")
		stop()
	}

	<-schedulerDone
	jobManager.Wait()
	appLog.Info("Server exiting")
}
