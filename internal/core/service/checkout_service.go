// Package service implements the core business logic.
package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
	"github.com/cloudbase/checkout-payments/internal/core/ports"
	"github.com/cloudbase/checkout-payments/internal/logging"
)

// Identifier prefix conventions for Stripe resources.
const (
	customerIDPrefix = "cus_"
	sessionIDPrefix  = "cs_"
)

// CheckoutService builds checkout sessions: it ensures a Stripe customer
// record exists for the order's user, assembles the session parameters and
// creates the session, returning the hosted page URL.
type CheckoutService struct {
	settings  domain.Settings
	processor ports.PaymentProcessor
	orders    ports.OrderStore
	customers ports.CustomerStore
	log       *logging.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	settings domain.Settings,
	processor ports.PaymentProcessor,
	orders ports.OrderStore,
	customers ports.CustomerStore,
	log *logging.Logger,
) *CheckoutService {
	return &CheckoutService{
		settings:  settings,
		processor: processor,
		orders:    orders,
		customers: customers,
		log:       log,
	}
}

// CreateSession creates a checkout session for the given order and returns
// the URL the customer should be redirected to.
func (s *CheckoutService) CreateSession(ctx context.Context, orderNo string) (string, error) {
	if !s.settings.Enabled {
		return "", domain.NewGatewayError(domain.ErrGatewayDisabled,
			"payment gateway is disabled", "GATEWAY_DISABLED")
	}

	creds, err := s.credentials()
	if err != nil {
		return "", err
	}

	order, err := s.orders.GetOrderByNumber(ctx, orderNo)
	if err != nil {
		return "", err
	}

	customerID, err := s.ensureCustomer(ctx, creds.SecretKey, order.User())
	if err != nil {
		return "", err
	}

	methods, err := s.activePaymentMethods(ctx, creds.SecretKey)
	if err != nil {
		return "", err
	}

	params := s.sessionParams(order, customerID, methods)

	// The idempotency key prevents multiple checkout sessions from being
	// created for the same order state. A changed order (e.g. new total)
	// serializes differently and therefore gets a new key and session.
	key := IdempotencyKey(params)

	s.log.Info("creating checkout session", "order_no", order.OrderNumber())
	s.log.Debug("checkout session params", params)

	session, err := s.processor.CreateCheckoutSession(ctx, creds.SecretKey, params, key)
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(session.ID, sessionIDPrefix) || session.URL == "" {
		return "", domain.NewGatewayError(domain.ErrProcessorResponse,
			"stripe returned an invalid checkout session", "PROCESSOR_ERROR")
	}

	s.log.Info("checkout session created", "order_no", order.OrderNumber(), "session_id", session.ID)
	s.log.Debug("checkout session", session)

	return session.URL, nil
}

// credentials selects the live or test key pair per the test-mode flag.
// Both keys of the selected pair must be non-blank.
func (s *CheckoutService) credentials() (domain.APICredentials, error) {
	publishable := s.settings.LivePublishableKey
	secret := s.settings.LiveSecretKey
	if s.settings.TestMode {
		publishable = s.settings.TestPublishableKey
		secret = s.settings.TestSecretKey
	}

	if strings.TrimSpace(publishable) == "" || strings.TrimSpace(secret) == "" {
		return domain.APICredentials{}, domain.NewGatewayError(domain.ErrMissingAPIKeys,
			"please configure the API keys", "CONFIG_ERROR")
	}

	return domain.APICredentials{PublishableKey: publishable, SecretKey: secret}, nil
}

// ensureCustomer returns the Stripe customer ID for the order's user,
// creating the customer record on first use and persisting the mapping
// (lookup-or-create, at most one record per user).
func (s *CheckoutService) ensureCustomer(ctx context.Context, secretKey string, user domain.User) (string, error) {
	s.log.Info("starting checkout session", "email", user.Email)

	stored, err := s.customers.CustomerID(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(stored, customerIDPrefix) {
		return stored, nil
	}

	customer, err := s.processor.CreateCustomer(ctx, secretKey, domain.CustomerParams{
		Description: fmt.Sprintf("%s from %s", user.Name, s.settings.SiteURL),
		Email:       user.Email,
		Name:        user.Name,
		Metadata: map[string]string{
			domain.MetadataUserID:   user.ID,
			domain.MetadataUserLink: user.ProfileURL,
		},
	})
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(customer.ID, customerIDPrefix) {
		return "", domain.NewGatewayError(domain.ErrProcessorResponse,
			"stripe returned an invalid customer", "PROCESSOR_ERROR")
	}

	if err := s.customers.SaveCustomerID(ctx, user.ID, customer.ID); err != nil {
		return "", err
	}

	return customer.ID, nil
}

// sessionParams assembles the full checkout session parameter set for an
// order: one line item for the grand total, redirect URLs taken from the
// order, and payment-intent metadata linking back to it.
func (s *CheckoutService) sessionParams(order ports.Order, customerID string, methods []string) domain.SessionParams {
	name := fmt.Sprintf("Order #%s", order.OrderNumber())

	return domain.SessionParams{
		CancelURL:          order.CheckoutURL(),
		Mode:               "payment",
		PaymentMethodTypes: methods,
		SuccessURL:         order.ReceivedURL(),
		Customer:           customerID,
		LineItems: []domain.LineItem{
			{
				PriceData: domain.PriceData{
					// Stripe requires lowercase currency codes.
					Currency:    strings.ToLower(order.Currency()),
					ProductData: domain.ProductData{Name: name},
					UnitAmount:  UnitAmount(order.Currency(), order.Total()),
				},
				Quantity: 1,
			},
		},
		PaymentIntentData: domain.PaymentIntentData{
			Description: fmt.Sprintf("Order #%s from %s", order.OrderNumber(), s.settings.SiteURL),
			Metadata: map[string]string{
				domain.MetadataOrderNumber: order.OrderNumber(),
				domain.MetadataOrderLink:   order.EditURL(),
			},
		},
	}
}

// IdempotencyKey derives a deterministic key from the canonical JSON
// serialization of the session parameters. Identical parameters always
// produce the same key. See https://stripe.com/docs/api/idempotent_requests
func IdempotencyKey(params domain.SessionParams) string {
	b, _ := json.Marshal(params)
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}
