// Package ports defines the interfaces (ports) for the payment service.
// These are contracts that adapters must implement.
package ports

import (
	"context"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
)

// PaymentProcessor defines the interface for outbound calls to Stripe.
// The secret key is passed per call because the service resolves the live or
// test pair for each request.
type PaymentProcessor interface {
	// AccountCapabilities retrieves the account's capability flags as a
	// capability name to status mapping.
	AccountCapabilities(ctx context.Context, secretKey string) (map[string]string, error)

	// CreateCustomer creates a customer record.
	CreateCustomer(ctx context.Context, secretKey string, params domain.CustomerParams) (*domain.Customer, error)

	// CreateCheckoutSession creates a checkout session. The idempotency key
	// guarantees retried calls with identical parameters reuse the same
	// session on the Stripe side.
	CreateCheckoutSession(ctx context.Context, secretKey string, params domain.SessionParams, idempotencyKey string) (*domain.CheckoutSession, error)
}

// WebhookVerifier validates inbound webhook payloads against the signature
// header and shared secret, returning the verified event.
type WebhookVerifier interface {
	Verify(payload []byte, sigHeader, secret string) (*domain.WebhookEvent, error)
}

// OrderStore locates orders in the order management system.
type OrderStore interface {
	// GetOrderByNumber returns the order for the given order number, or
	// domain.ErrOrderNotFound.
	GetOrderByNumber(ctx context.Context, orderNo string) (Order, error)
}

// Order is the mutation contract the order management system exposes for a
// single order. Reads reflect the state at fetch time; mutations are applied
// remotely.
type Order interface {
	OrderNumber() string
	Currency() string
	Total() float64
	CheckoutURL() string // where the customer lands if they cancel payment
	ReceivedURL() string // where the customer lands after paying
	EditURL() string
	User() domain.User

	// HasStatus reports whether the order's status is one of the given set.
	HasStatus(statuses ...string) bool

	// AddMetadata attaches a metadata entry. With setIfAbsent, an existing
	// entry under the same key is left untouched.
	AddMetadata(ctx context.Context, key, value string, setIfAbsent bool) error

	// AddNote appends a note to the order's note log.
	AddNote(ctx context.Context, note string) error

	// MarkPaymentSettled runs the order system's payment-settlement
	// transition with the given settlement reference. The order system
	// decides between "processing" and "completed".
	MarkPaymentSettled(ctx context.Context, reference string) error

	// SetStatus sets the order status directly.
	SetStatus(ctx context.Context, status string) error
}

// CustomerStore persists the per-user mapping to the external customer
// identifier, as user-scoped metadata in the order management system.
type CustomerStore interface {
	// CustomerID returns the stored customer identifier for the user, or ""
	// when none has been stored.
	CustomerID(ctx context.Context, userID string) (string, error)

	// SaveCustomerID stores the customer identifier for the user.
	SaveCustomerID(ctx context.Context, userID, customerID string) error
}
