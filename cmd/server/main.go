package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "rentalworks-backend/internal/api/http"
	"rentalworks-backend/internal/config"
	"rentalworks-backend/internal/logger"
	"rentalworks-backend/internal/paymentsource"
	"rentalworks-backend/internal/render"
	"rentalworks-backend/internal/repository/postgres"
	"rentalworks-backend/internal/security"
	"rentalworks-backend/internal/service"
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
	logger.Info("Starting RentalWorks Settlement Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
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
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		cfg.JWT.AdminUser,
		cfg.JWT.AdminPasswordHash,
		time.Duration(cfg.JWT.TokenExpiry)*time.Minute,
	)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)

	// Initialize the card rail
	cardSource := paymentsource.NewStripeSource(cfg.Stripe.APIKey)

	// Initialize Services
	settlementSvc := service.NewSettlementService(
		store.BookingRepository,
		store.PaymentRepository,
		store.InstallmentRepository,
		store.LedgerRepository,
		emailSvc,
		cardSource,
		cfg.TransportRates(),
	)

	// Initialize Renderers
	htmlRend, err := render.NewHTMLRenderer(cfg.Billing.LogoURL)
	if err != nil {
		logger.Error("Failed to build HTML renderer", "error", err)
		log.Fatalf("Failed to build HTML renderer: %v", err)
	}
	textRend := render.NewTextRenderer()

	// Initialize HTTP handlers
	settlementHandler := httpapi.NewSettlementHandler(settlementSvc, htmlRend, textRend)
	authHandler := httpapi.NewAuthHandler(tokenManager)
	router := httpapi.NewRouter(settlementHandler, authHandler)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
