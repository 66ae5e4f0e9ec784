// Package domain contains the core business entities for the payment service.
package domain

import "errors"

// Domain errors - represent business rule violations.
var (
	// ErrGatewayDisabled is returned when a checkout is attempted while the
	// gateway enable flag is off.
	ErrGatewayDisabled = errors.New("payment gateway is not enabled")

	// ErrMissingAPIKeys is returned when the selected key pair has a blank
	// publishable or secret key.
	ErrMissingAPIKeys = errors.New("stripe API keys are not configured")

	// ErrSignatureVerification is returned when a webhook payload fails
	// signature verification.
	ErrSignatureVerification = errors.New("webhook signature verification failed")

	// ErrProcessorResponse is returned when Stripe returns a malformed or
	// unexpected response.
	ErrProcessorResponse = errors.New("unexpected response from stripe")

	// ErrOrderNotFound is returned when the order store has no order for the
	// given order number.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderStoreError is returned when the order management system fails.
	ErrOrderStoreError = errors.New("order management system error")
)

// GatewayError wraps a domain error with additional context.
type GatewayError struct {
	Err     error
	Message string
	Code    string
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewGatewayError creates a new GatewayError.
func NewGatewayError(err error, message, code string) *GatewayError {
	return &GatewayError{Err: err, Message: message, Code: code}
}
