// Checkout Payments Microservice
//
// This is the main entry point for the Stripe Checkout payment service.
// It wires up all dependencies and starts the HTTP server.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudbase/checkout-payments/config"
	"github.com/cloudbase/checkout-payments/internal/adapters/orderapi"
	"github.com/cloudbase/checkout-payments/internal/adapters/stripe"
	"github.com/cloudbase/checkout-payments/internal/core/domain"
	"github.com/cloudbase/checkout-payments/internal/core/service"
	"github.com/cloudbase/checkout-payments/internal/handlers"
	"github.com/cloudbase/checkout-payments/internal/logging"
)

func main() {
	log.Println("Starting Checkout Payments Service...")

	// Load configuration
	cfg := config.Load()
	log.Printf("Configuration loaded: Port=%s, OrdersURL=%s, TestMode=%v",
		cfg.Server.Port, cfg.Orders.BaseURL, cfg.Stripe.TestMode)

	// Validate required configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	settings := domain.Settings{
		Enabled:            cfg.Gateway.Enabled,
		Title:              cfg.Gateway.Title,
		Description:        cfg.Gateway.Description,
		IconURL:            cfg.Gateway.IconURL,
		SiteURL:            cfg.Gateway.SiteURL,
		LivePublishableKey: cfg.Stripe.LivePublishableKey,
		LiveSecretKey:      cfg.Stripe.LiveSecretKey,
		TestPublishableKey: cfg.Stripe.TestPublishableKey,
		TestSecretKey:      cfg.Stripe.TestSecretKey,
		TestMode:           cfg.Stripe.TestMode,
		CallbackEnabled:    cfg.Gateway.CallbackEnabled,
		WebhookSecret:      cfg.Stripe.WebhookSecret,
		LoggingEnabled:     cfg.Gateway.LoggingEnabled,
	}

	// Wire up dependencies (manual dependency injection)
	//
	// Infrastructure Layer
	logger := logging.New(settings.LoggingEnabled, os.Stdout)
	orderClient := orderapi.NewClient(cfg.Orders.BaseURL, cfg.Orders.APIKey)
	processor := stripe.NewAdapter("")
	verifier := stripe.NewVerifier(stripe.DefaultTolerance)

	// Service Layer
	reconciler := service.NewReconciler(logger)
	checkoutService := service.NewCheckoutService(
		settings,
		processor,
		orderClient, // implements ports.OrderStore
		orderClient, // implements ports.CustomerStore
		logger,
	)
	webhookService := service.NewWebhookService(settings, verifier, orderClient, reconciler, logger)

	// API Layer
	handler := handlers.NewHandler(checkoutService, webhookService, settings)
	router := handlers.SetupRouter(handler, cfg.Security.ServiceAPIKey, cfg.Server.GinMode)

	// Start server in a goroutine
	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	go func() {
		log.Printf("Server listening on %s", serverAddr)
		if err := router.Run(serverAddr); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}

// validateConfig checks that required configuration values are set.
func validateConfig(cfg *config.Config) error {
	if cfg.Orders.BaseURL == "" {
		return fmt.Errorf("ORDERS_API_URL is required")
	}
	if cfg.Security.ServiceAPIKey == "" {
		log.Println("Warning: SERVICE_API_KEY not set")
	}
	if cfg.Gateway.CallbackEnabled && cfg.Stripe.WebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required when the callback is enabled")
	}
	return nil
}
