// Package stripe implements the PaymentProcessor and WebhookVerifier ports
// against the Stripe API.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
)

// apiBase is the default Stripe API base URL. Overridable in tests.
const apiBase = "https://api.stripe.com"

// Adapter implements ports.PaymentProcessor by making form-encoded HTTP
// calls to the Stripe REST API. The secret key is supplied per call; the
// adapter itself holds no credentials.
type Adapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewAdapter creates a new Stripe adapter. baseURL may be empty to use the
// production API.
func NewAdapter(baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = apiBase
	}
	return &Adapter{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// AccountCapabilities retrieves the account's capability flags.
// See https://stripe.com/docs/api/accounts/retrieve
func (a *Adapter) AccountCapabilities(ctx context.Context, secretKey string) (map[string]string, error) {
	resp, err := a.doGet(ctx, secretKey, "/v1/account")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, a.errorFromResponse(resp, "retrieve account")
	}

	var account struct {
		Capabilities map[string]string `json:"capabilities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, domain.NewGatewayError(domain.ErrProcessorResponse,
			"failed to decode account response", "PROCESSOR_ERROR")
	}

	return account.Capabilities, nil
}

// CreateCustomer creates a customer record.
func (a *Adapter) CreateCustomer(ctx context.Context, secretKey string, params domain.CustomerParams) (*domain.Customer, error) {
	form := url.Values{}
	form.Set("description", params.Description)
	form.Set("email", params.Email)
	form.Set("name", params.Name)
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	resp, err := a.doPost(ctx, secretKey, "/v1/customers", form, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, a.errorFromResponse(resp, "create customer")
	}

	var customer domain.Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return nil, domain.NewGatewayError(domain.ErrProcessorResponse,
			"failed to decode customer response", "PROCESSOR_ERROR")
	}

	return &customer, nil
}

// CreateCheckoutSession creates a checkout session. The idempotency key is
// sent as the Idempotency-Key header so Stripe deduplicates retried calls.
func (a *Adapter) CreateCheckoutSession(ctx context.Context, secretKey string, params domain.SessionParams, idempotencyKey string) (*domain.CheckoutSession, error) {
	form := sessionForm(params)

	resp, err := a.doPost(ctx, secretKey, "/v1/checkout/sessions", form, idempotencyKey)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, a.errorFromResponse(resp, "create checkout session")
	}

	var session domain.CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, domain.NewGatewayError(domain.ErrProcessorResponse,
			"failed to decode checkout session response", "PROCESSOR_ERROR")
	}

	return &session, nil
}

// sessionForm flattens session parameters into Stripe's bracketed form
// encoding.
func sessionForm(params domain.SessionParams) url.Values {
	form := url.Values{}
	form.Set("cancel_url", params.CancelURL)
	form.Set("mode", params.Mode)
	form.Set("success_url", params.SuccessURL)
	form.Set("customer", params.Customer)

	for i, method := range params.PaymentMethodTypes {
		form.Set(fmt.Sprintf("payment_method_types[%d]", i), method)
	}

	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", item.PriceData.Currency)
		form.Set(prefix+"[price_data][product_data][name]", item.PriceData.ProductData.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.PriceData.UnitAmount, 10))
		form.Set(prefix+"[quantity]", strconv.FormatInt(item.Quantity, 10))
	}

	form.Set("payment_intent_data[description]", params.PaymentIntentData.Description)
	for k, v := range params.PaymentIntentData.Metadata {
		form.Set(fmt.Sprintf("payment_intent_data[metadata][%s]", k), v)
	}

	return form
}

// doGet performs an authenticated GET request to the Stripe API.
func (a *Adapter) doGet(ctx context.Context, secretKey, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	setAuthHeaders(req, secretKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewGatewayError(domain.ErrProcessorResponse,
			"stripe request failed: "+err.Error(), "PROCESSOR_ERROR")
	}
	return resp, nil
}

// doPost performs an authenticated POST request with a form-encoded body.
func (a *Adapter) doPost(ctx context.Context, secretKey, path string, form url.Values, idempotencyKey string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	setAuthHeaders(req, secretKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewGatewayError(domain.ErrProcessorResponse,
			"stripe request failed: "+err.Error(), "PROCESSOR_ERROR")
	}
	return resp, nil
}

// setAuthHeaders sets the Stripe authentication and version headers.
func setAuthHeaders(req *http.Request, secretKey string) {
	req.Header.Set("Authorization", "Bearer "+secretKey)
	req.Header.Set("Stripe-Version", stripe.APIVersion)
}

// stripeErrorResponse is the JSON error body returned by the Stripe API.
type stripeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// errorFromResponse maps a non-200 Stripe response to a domain error.
func (a *Adapter) errorFromResponse(resp *http.Response, operation string) error {
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return domain.NewGatewayError(domain.ErrProcessorResponse,
			fmt.Sprintf("%s: stripe returned status %d with unreadable body", operation, resp.StatusCode),
			"PROCESSOR_ERROR")
	}

	var stripeErr stripeErrorResponse
	if err := json.Unmarshal(body, &stripeErr); err != nil {
		return domain.NewGatewayError(domain.ErrProcessorResponse,
			fmt.Sprintf("%s: stripe returned status %d with non-JSON body", operation, resp.StatusCode),
			"PROCESSOR_ERROR")
	}

	return domain.NewGatewayError(domain.ErrProcessorResponse,
		fmt.Sprintf("%s: stripe error (%d): %s", operation, resp.StatusCode, stripeErr.Error.Message),
		"PROCESSOR_ERROR")
}
