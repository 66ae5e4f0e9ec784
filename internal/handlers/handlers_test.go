package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
)

const testServiceKey = "service-key-123"

type stubCheckout struct {
	url     string
	err     error
	orderNo string
}

func (s *stubCheckout) CreateSession(_ context.Context, orderNo string) (string, error) {
	s.orderNo = orderNo
	return s.url, s.err
}

type stubWebhook struct {
	status    int
	payload   []byte
	sigHeader string
	called    bool
}

func (s *stubWebhook) HandleEvent(_ context.Context, payload []byte, sigHeader string) int {
	s.called = true
	s.payload = payload
	s.sigHeader = sigHeader
	return s.status
}

func testRouter(checkout CheckoutCreator, webhook WebhookProcessor, settings domain.Settings) *gin.Engine {
	handler := NewHandler(checkout, webhook, settings)
	return SetupRouter(handler, testServiceKey, gin.TestMode)
}

func enabledSettings() domain.Settings {
	return domain.Settings{
		Enabled:         true,
		Title:           "Card payments",
		Description:     "Pay securely by card",
		IconURL:         "https://shop.example/assets/stripe.svg",
		CallbackEnabled: true,
		TestMode:        true,
	}
}

func doRequest(router *gin.Engine, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authed(headers map[string]string) map[string]string {
	if headers == nil {
		headers = map[string]string{}
	}
	headers["Authorization"] = "Bearer " + testServiceKey
	headers["Content-Type"] = "application/json"
	return headers
}

func TestCreateCheckout(t *testing.T) {
	checkout := &stubCheckout{url: "https://checkout.stripe.com/c/pay/cs_test_abc"}
	router := testRouter(checkout, &stubWebhook{}, enabledSettings())

	w := doRequest(router, http.MethodPost, "/api/v1/payments/checkout",
		[]byte(`{"order_no": "1001"}`), authed(nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1001", checkout.orderNo)

	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_abc", resp.RedirectURL)
}

func TestCreateCheckoutValidation(t *testing.T) {
	router := testRouter(&stubCheckout{}, &stubWebhook{}, enabledSettings())

	tests := []struct {
		name string
		body string
	}{
		{"missing order_no", `{}`},
		{"empty order_no", `{"order_no": ""}`},
		{"not json", `order_no=1001`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/v1/payments/checkout",
				[]byte(tt.body), authed(nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "VALIDATION_ERROR", resp.Code)
		})
	}
}

func TestCreateCheckoutErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			"gateway disabled",
			domain.NewGatewayError(domain.ErrGatewayDisabled, "payment gateway is disabled", "GATEWAY_DISABLED"),
			http.StatusForbidden, "GATEWAY_DISABLED",
		},
		{
			"missing api keys",
			domain.NewGatewayError(domain.ErrMissingAPIKeys, "API credentials are not configured", "CONFIG_ERROR"),
			http.StatusInternalServerError, "CONFIG_ERROR",
		},
		{
			"processor error",
			domain.NewGatewayError(domain.ErrProcessorResponse, "stripe error", "PROCESSOR_ERROR"),
			http.StatusBadGateway, "PROCESSOR_ERROR",
		},
		{
			"order store error",
			domain.NewGatewayError(domain.ErrOrderStoreError, "order API returned status 500", "ORDER_API_ERROR"),
			http.StatusBadGateway, "ORDER_API_ERROR",
		},
		{
			"order not found",
			domain.ErrOrderNotFound,
			http.StatusNotFound, "ORDER_NOT_FOUND",
		},
		{
			"unexpected error",
			assert.AnError,
			http.StatusInternalServerError, "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testRouter(&stubCheckout{err: tt.err}, &stubWebhook{}, enabledSettings())

			w := doRequest(router, http.MethodPost, "/api/v1/payments/checkout",
				[]byte(`{"order_no": "1001"}`), authed(nil))

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestCheckoutRequiresServiceAuth(t *testing.T) {
	checkout := &stubCheckout{url: "https://example.test"}
	router := testRouter(checkout, &stubWebhook{}, enabledSettings())

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic " + testServiceKey},
		{"wrong token", "Bearer wrong-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{"Content-Type": "application/json"}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}

			w := doRequest(router, http.MethodPost, "/api/v1/payments/checkout",
				[]byte(`{"order_no": "1001"}`), headers)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Empty(t, checkout.orderNo, "service is not reached without valid credentials")
		})
	}
}

func TestHandleWebhook(t *testing.T) {
	webhook := &stubWebhook{status: http.StatusOK}
	router := testRouter(&stubCheckout{}, webhook, enabledSettings())

	payload := []byte(`{"id": "evt_1", "type": "payment_intent.succeeded"}`)
	w := doRequest(router, http.MethodPost, "/webhook", payload,
		map[string]string{"Stripe-Signature": "t=1,v1=abc"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, webhook.called)
	assert.Equal(t, payload, webhook.payload)
	assert.Equal(t, "t=1,v1=abc", webhook.sigHeader)
	assert.Empty(t, w.Body.Bytes(), "webhook responses carry no body")
}

func TestHandleWebhookRejected(t *testing.T) {
	webhook := &stubWebhook{status: http.StatusForbidden}
	router := testRouter(&stubCheckout{}, webhook, enabledSettings())

	w := doRequest(router, http.MethodPost, "/webhook", []byte(`{}`), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleWebhookCallbackDisabled(t *testing.T) {
	settings := enabledSettings()
	settings.CallbackEnabled = false
	webhook := &stubWebhook{status: http.StatusOK}
	router := testRouter(&stubCheckout{}, webhook, settings)

	w := doRequest(router, http.MethodPost, "/webhook", []byte(`{}`), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, webhook.called)
}

func TestWebhookNeedsNoServiceAuth(t *testing.T) {
	webhook := &stubWebhook{status: http.StatusOK}
	router := testRouter(&stubCheckout{}, webhook, enabledSettings())

	// No Authorization header: Stripe authenticates via signature instead.
	w := doRequest(router, http.MethodPost, "/webhook", []byte(`{}`), nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGatewayInfo(t *testing.T) {
	router := testRouter(&stubCheckout{}, &stubWebhook{}, enabledSettings())

	w := doRequest(router, http.MethodGet, "/api/v1/payments/gateway", nil, authed(nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["enabled"])
	assert.Equal(t, "Card payments", resp["title"])
	assert.Equal(t, "Pay securely by card", resp["description"])
	assert.Equal(t, "https://shop.example/assets/stripe.svg", resp["icon_url"])
	assert.Equal(t, true, resp["test_mode"])
}

func TestHealth(t *testing.T) {
	router := testRouter(&stubCheckout{}, &stubWebhook{}, enabledSettings())

	w := doRequest(router, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestRequestIDHeader(t *testing.T) {
	router := testRouter(&stubCheckout{}, &stubWebhook{}, enabledSettings())

	w := doRequest(router, http.MethodGet, "/health", nil, nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = doRequest(router, http.MethodGet, "/health", nil,
		map[string]string{"X-Request-ID": "req-1"})
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
}
