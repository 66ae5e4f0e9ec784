// Package config handles loading and managing application configuration.
package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	Server ServerConfig

	// Stripe API credentials and webhook settings
	Stripe StripeConfig

	// Order management system API configuration
	Orders OrdersConfig

	// Gateway presentation and behaviour settings
	Gateway GatewayConfig

	// Security settings
	Security SecurityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port    string
	GinMode string // "debug", "release", or "test"
}

// StripeConfig holds the live and test API key pairs plus webhook settings.
type StripeConfig struct {
	LivePublishableKey string
	LiveSecretKey      string
	TestPublishableKey string
	TestSecretKey      string
	TestMode           bool
	WebhookSecret      string
}

// OrdersConfig holds the order management system API configuration.
type OrdersConfig struct {
	BaseURL string
	APIKey  string
}

// GatewayConfig holds the settings the storefront sees for this gateway.
type GatewayConfig struct {
	Enabled         bool
	Title           string
	Description     string
	IconURL         string
	SiteURL         string
	CallbackEnabled bool
	LoggingEnabled  bool
}

// SecurityConfig holds security-related configuration.
type SecurityConfig struct {
	ServiceAPIKey string // Bearer token expected on server-to-server calls
}

// Load reads configuration from environment variables.
// Returns a Config struct with all settings populated.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Stripe: StripeConfig{
			LivePublishableKey: getEnv("STRIPE_LIVE_PUBLISHABLE_KEY", ""),
			LiveSecretKey:      getEnv("STRIPE_LIVE_SECRET_KEY", ""),
			TestPublishableKey: getEnv("STRIPE_TEST_PUBLISHABLE_KEY", ""),
			TestSecretKey:      getEnv("STRIPE_TEST_SECRET_KEY", ""),
			TestMode:           getEnvBool("STRIPE_TEST_MODE", false),
			WebhookSecret:      getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Orders: OrdersConfig{
			BaseURL: getEnv("ORDERS_API_URL", "http://localhost:8000"),
			APIKey:  getEnv("ORDERS_API_KEY", ""),
		},
		Gateway: GatewayConfig{
			Enabled:         getEnvBool("GATEWAY_ENABLED", false),
			Title:           getEnv("GATEWAY_TITLE", "Stripe Checkout"),
			Description:     getEnv("GATEWAY_DESCRIPTION", ""),
			IconURL:         getEnv("GATEWAY_ICON_URL", ""),
			SiteURL:         getEnv("SITE_URL", "http://localhost"),
			CallbackEnabled: getEnvBool("CALLBACK_ENABLED", false),
			LoggingEnabled:  getEnvBool("LOGGING_ENABLED", false),
		},
		Security: SecurityConfig{
			ServiceAPIKey: getEnv("SERVICE_API_KEY", ""),
		},
	}
}

// getEnv retrieves an environment variable with a fallback default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as a boolean with a fallback.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
