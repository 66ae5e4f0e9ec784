// Package handlers contains the HTTP handlers and routing.
package handlers

import (
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin router with all routes.
func SetupRouter(handler *Handler, serviceAPIKey, ginMode string) *gin.Engine {
	gin.SetMode(ginMode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
	router.Use(RequestIDMiddleware())

	// Health check (public)
	router.GET("/health", handler.Health)

	// API v1 routes (server-to-server, requires Bearer auth)
	v1 := router.Group("/api/v1")
	{
		payments := v1.Group("/payments")
		payments.Use(ServiceAuthMiddleware(serviceAPIKey))
		{
			payments.POST("/checkout", handler.CreateCheckout)
			payments.GET("/gateway", handler.GatewayInfo)
		}
	}

	// Webhook endpoint (public, validates Stripe-Signature)
	router.POST("/webhook", handler.HandleWebhook)

	return router
}
