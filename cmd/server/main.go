package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "nkadime-backend/internal/api/http"
	"nkadime-backend/internal/cache"
	"nkadime-backend/internal/config"
	"nkadime-backend/internal/events"
	"nkadime-backend/internal/logger"
	"nkadime-backend/internal/repository/postgres"
	"nkadime-backend/internal/security"
	"nkadime-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Nkadime Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize outbound infrastructure
	publisher := events.NewPublisher(cfg.Queue.URL)
	if publisher == nil {
		logger.Warn("Message broker not configured; event publishing disabled")
	}
	listingCache := cache.NewListingCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTLSeconds)
	if listingCache == nil {
		logger.Warn("Redis not configured; listing search cache disabled")
	}

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.FromName)

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	userSvc := service.NewUserService(store.UserRepository)
	listingSvc := service.NewListingService(store.ListingRepository, listingCache)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.ListingRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailSvc,
		publisher,
		listingCache,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)
	reviewSvc := service.NewReviewService(store.ReviewRepository, store.ListingRepository)
	messageSvc := service.NewListingMessageService(store.ListingMessageRepository, store.ListingRepository)
	favSvc := service.NewFavoriteService(store.FavoriteRepository, store.ListingRepository)

	// Initialize HTTP handlers and router
	handlers := httpapi.NewHandlers(authSvc, userSvc, listingSvc, rentalSvc, noteSvc, reviewSvc, messageSvc, favSvc)
	router := httpapi.NewRouter(handlers, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
