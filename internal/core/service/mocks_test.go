package service

import (
	"context"
	"io"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
	"github.com/cloudbase/checkout-payments/internal/core/ports"
	"github.com/cloudbase/checkout-payments/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.New(false, io.Discard)
}

// mockProcessor implements ports.PaymentProcessor for testing.
type mockProcessor struct {
	capabilities    map[string]string
	capabilitiesErr error

	customer    *domain.Customer
	customerErr error

	session    *domain.CheckoutSession
	sessionErr error

	createdCustomers []domain.CustomerParams
	sessionParams    []domain.SessionParams
	idempotencyKeys  []string
	secretKeys       []string
}

func (m *mockProcessor) AccountCapabilities(_ context.Context, secretKey string) (map[string]string, error) {
	m.secretKeys = append(m.secretKeys, secretKey)
	return m.capabilities, m.capabilitiesErr
}

func (m *mockProcessor) CreateCustomer(_ context.Context, secretKey string, params domain.CustomerParams) (*domain.Customer, error) {
	m.secretKeys = append(m.secretKeys, secretKey)
	m.createdCustomers = append(m.createdCustomers, params)
	return m.customer, m.customerErr
}

func (m *mockProcessor) CreateCheckoutSession(_ context.Context, secretKey string, params domain.SessionParams, idempotencyKey string) (*domain.CheckoutSession, error) {
	m.secretKeys = append(m.secretKeys, secretKey)
	m.sessionParams = append(m.sessionParams, params)
	m.idempotencyKeys = append(m.idempotencyKeys, idempotencyKey)
	return m.session, m.sessionErr
}

// mockOrderStore implements ports.OrderStore for testing.
type mockOrderStore struct {
	order   ports.Order
	err     error
	lookups []string
}

func (m *mockOrderStore) GetOrderByNumber(_ context.Context, orderNo string) (ports.Order, error) {
	m.lookups = append(m.lookups, orderNo)
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

// mockCustomerStore implements ports.CustomerStore for testing.
type mockCustomerStore struct {
	stored  map[string]string
	getErr  error
	saveErr error
	saved   map[string]string
}

func newMockCustomerStore() *mockCustomerStore {
	return &mockCustomerStore{stored: map[string]string{}, saved: map[string]string{}}
}

func (m *mockCustomerStore) CustomerID(_ context.Context, userID string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.stored[userID], nil
}

func (m *mockCustomerStore) SaveCustomerID(_ context.Context, userID, customerID string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[userID] = customerID
	return nil
}

// fakeOrder implements ports.Order, recording mutations in memory.
type fakeOrder struct {
	no          string
	currency    string
	total       float64
	status      string
	checkoutURL string
	receivedURL string
	editURL     string
	user        domain.User

	metadata    map[string]string
	notes       []string
	settledRefs []string
	mutationErr error
}

func newFakeOrder(no, currency string, total float64, status string) *fakeOrder {
	return &fakeOrder{
		no:          no,
		currency:    currency,
		total:       total,
		status:      status,
		checkoutURL: "https://shop.example/checkout/pay/" + no,
		receivedURL: "https://shop.example/checkout/received/" + no,
		editURL:     "https://shop.example/admin/orders/" + no,
		user: domain.User{
			ID:         "42",
			Email:      "jo@example.com",
			Name:       "Jo Customer",
			ProfileURL: "https://shop.example/users/42",
		},
		metadata: map[string]string{},
	}
}

func (o *fakeOrder) OrderNumber() string { return o.no }
func (o *fakeOrder) Currency() string    { return o.currency }
func (o *fakeOrder) Total() float64      { return o.total }
func (o *fakeOrder) CheckoutURL() string { return o.checkoutURL }
func (o *fakeOrder) ReceivedURL() string { return o.receivedURL }
func (o *fakeOrder) EditURL() string     { return o.editURL }
func (o *fakeOrder) User() domain.User   { return o.user }

func (o *fakeOrder) HasStatus(statuses ...string) bool {
	for _, s := range statuses {
		if o.status == s {
			return true
		}
	}
	return false
}

func (o *fakeOrder) AddMetadata(_ context.Context, key, value string, setIfAbsent bool) error {
	if o.mutationErr != nil {
		return o.mutationErr
	}
	if setIfAbsent {
		if _, exists := o.metadata[key]; exists {
			return nil
		}
	}
	o.metadata[key] = value
	return nil
}

func (o *fakeOrder) AddNote(_ context.Context, note string) error {
	if o.mutationErr != nil {
		return o.mutationErr
	}
	o.notes = append(o.notes, note)
	return nil
}

func (o *fakeOrder) MarkPaymentSettled(_ context.Context, reference string) error {
	if o.mutationErr != nil {
		return o.mutationErr
	}
	o.settledRefs = append(o.settledRefs, reference)
	o.status = "processing"
	return nil
}

func (o *fakeOrder) SetStatus(_ context.Context, status string) error {
	if o.mutationErr != nil {
		return o.mutationErr
	}
	o.status = status
	return nil
}

// stubVerifier implements ports.WebhookVerifier for testing.
type stubVerifier struct {
	event   *domain.WebhookEvent
	err     error
	secrets []string
}

func (v *stubVerifier) Verify(_ []byte, _, secret string) (*domain.WebhookEvent, error) {
	v.secrets = append(v.secrets, secret)
	if v.err != nil {
		return nil, v.err
	}
	return v.event, nil
}
