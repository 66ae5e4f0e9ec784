// Package domain contains the core business entities for the payment service.
// This is the innermost layer - no external dependencies.
package domain

// Settings is the gateway configuration surface, owned by the admin side of
// the order management system and loaded once at startup.
type Settings struct {
	Enabled            bool   `json:"enabled"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	IconURL            string `json:"icon_url"`
	SiteURL            string `json:"site_url"`
	LivePublishableKey string `json:"-"`
	LiveSecretKey      string `json:"-"`
	TestPublishableKey string `json:"-"`
	TestSecretKey      string `json:"-"`
	TestMode           bool   `json:"test_mode"`
	CallbackEnabled    bool   `json:"callback_enabled"`
	WebhookSecret      string `json:"-"`
	LoggingEnabled     bool   `json:"logging_enabled"`
}

// APICredentials is a publishable/secret key pair selected from the live or
// test pair depending on the test-mode flag.
type APICredentials struct {
	PublishableKey string
	SecretKey      string
}

// User is the storefront user attached to an order.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
}

// CustomerParams are the parameters for creating a customer record in Stripe.
type CustomerParams struct {
	Description string            `json:"description"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Metadata    map[string]string `json:"metadata"`
}

// Customer is a customer record returned by Stripe.
type Customer struct {
	ID string `json:"id"`
}

// SessionParams is the full parameter set for a checkout session. The JSON
// encoding of this struct is the canonical serialization the idempotency key
// is derived from, so field order matters.
type SessionParams struct {
	CancelURL          string            `json:"cancel_url"`
	Mode               string            `json:"mode"`
	PaymentMethodTypes []string          `json:"payment_method_types"`
	SuccessURL         string            `json:"success_url"`
	Customer           string            `json:"customer"`
	LineItems          []LineItem        `json:"line_items"`
	PaymentIntentData  PaymentIntentData `json:"payment_intent_data"`
}

// LineItem is a single checkout session line item.
type LineItem struct {
	PriceData PriceData `json:"price_data"`
	Quantity  int64     `json:"quantity"`
}

// PriceData describes the price of a line item. UnitAmount is a non-negative
// integer in the currency's minor unit.
type PriceData struct {
	Currency    string      `json:"currency"`
	ProductData ProductData `json:"product_data"`
	UnitAmount  int64       `json:"unit_amount"`
}

// ProductData holds the product display fields shown on the hosted page.
type ProductData struct {
	Name string `json:"name"`
}

// PaymentIntentData carries the description and order-linking metadata
// attached to the payment intent created by the session.
type PaymentIntentData struct {
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

// CheckoutSession is a created checkout session. URL is the hosted payment
// page the customer is redirected to.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Metadata keys linking a payment intent back to the originating order.
const (
	MetadataOrderNumber = "order_no"
	MetadataOrderLink   = "order_link"
	MetadataUserID      = "user_id"
	MetadataUserLink    = "user_link"
)

// Order metadata keys written by the reconciler.
const (
	MetaSuccessfulPaymentMethod = "successful_payment_method_details"
	MetaFailedPaymentMethod     = "failed_payment_method_details"
)
