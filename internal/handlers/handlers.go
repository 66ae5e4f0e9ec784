// Package handlers contains the HTTP handlers and routing for the payment
// service.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
)

// CheckoutCreator creates checkout sessions.
type CheckoutCreator interface {
	CreateSession(ctx context.Context, orderNo string) (string, error)
}

// WebhookProcessor handles verified webhook deliveries and returns the
// response status.
type WebhookProcessor interface {
	HandleEvent(ctx context.Context, payload []byte, sigHeader string) int
}

// Handler contains the HTTP handlers for the payment API.
type Handler struct {
	checkout CheckoutCreator
	webhook  WebhookProcessor
	settings domain.Settings
}

// NewHandler creates a new API handler.
func NewHandler(checkout CheckoutCreator, webhook WebhookProcessor, settings domain.Settings) *Handler {
	return &Handler{
		checkout: checkout,
		webhook:  webhook,
		settings: settings,
	}
}

// CheckoutRequest represents the JSON body for the checkout endpoint.
type CheckoutRequest struct {
	OrderNo string `json:"order_no" binding:"required"`
}

// CheckoutResponse represents the response from the checkout endpoint.
type CheckoutResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// CreateCheckout handles POST /api/v1/payments/checkout
// Creates a checkout session and returns the hosted page redirect URL.
func (h *Handler) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	redirectURL, err := h.checkout.CreateSession(c.Request.Context(), req.OrderNo)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckoutResponse{
		Success:     true,
		RedirectURL: redirectURL,
	})
}

// HandleWebhook handles POST /webhook
// Receives Stripe events. The response carries only a status code: 403 until
// the event verifies and routes cleanly, 200 afterwards.
func (h *Handler) HandleWebhook(c *gin.Context) {
	if !h.settings.CallbackEnabled {
		c.Status(http.StatusNotFound)
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusForbidden)
		return
	}

	status := h.webhook.HandleEvent(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	c.Status(status)
}

// GatewayInfo handles GET /api/v1/payments/gateway
// Returns the display settings the storefront needs to render this payment
// option.
func (h *Handler) GatewayInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"enabled":     h.settings.Enabled,
		"title":       h.settings.Title,
		"description": h.settings.Description,
		"icon_url":    h.settings.IconURL,
		"test_mode":   h.settings.TestMode,
	})
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "checkout-payments",
	})
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	var gatewayErr *domain.GatewayError
	if errors.As(err, &gatewayErr) {
		statusCode := http.StatusInternalServerError

		switch {
		case errors.Is(gatewayErr.Err, domain.ErrGatewayDisabled):
			statusCode = http.StatusForbidden
		case errors.Is(gatewayErr.Err, domain.ErrMissingAPIKeys):
			statusCode = http.StatusInternalServerError
		case errors.Is(gatewayErr.Err, domain.ErrProcessorResponse):
			statusCode = http.StatusBadGateway
		case errors.Is(gatewayErr.Err, domain.ErrOrderStoreError):
			statusCode = http.StatusBadGateway
		}

		c.JSON(statusCode, ErrorResponse{
			Success: false,
			Error:   gatewayErr.Message,
			Code:    gatewayErr.Code,
		})
		return
	}

	if errors.Is(err, domain.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Success: false,
			Error:   "order not found",
			Code:    "ORDER_NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Error:   "Internal server error",
		Code:    "INTERNAL_ERROR",
	})
}
