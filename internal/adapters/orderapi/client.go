// Package orderapi implements the OrderStore and CustomerStore ports by
// communicating with the order management system's internal HTTP API.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
	"github.com/cloudbase/checkout-payments/internal/core/ports"
)

// customerIDMetaKey is the user-scoped metadata key holding the Stripe
// customer identifier.
const customerIDMetaKey = "stripe_customer_id"

// Client implements ports.OrderStore and ports.CustomerStore by making HTTP
// requests to the order management system.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new order management system client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// orderResponse represents the JSON order payload from the internal API.
type orderResponse struct {
	OrderNumber string      `json:"order_no"`
	Currency    string      `json:"currency"`
	Total       float64     `json:"total"`
	Status      string      `json:"status"`
	CheckoutURL string      `json:"checkout_url"`
	ReceivedURL string      `json:"received_url"`
	EditURL     string      `json:"edit_url"`
	User        domain.User `json:"user"`
}

// GetOrderByNumber fetches the order and returns a handle whose mutations
// are applied through the internal API.
func (c *Client) GetOrderByNumber(ctx context.Context, orderNo string) (ports.Order, error) {
	if orderNo == "" {
		return nil, domain.ErrOrderNotFound
	}

	var data orderResponse
	if err := c.doJSON(ctx, http.MethodGet, c.orderPath(orderNo, ""), nil, &data); err != nil {
		return nil, err
	}

	return &Order{client: c, data: data}, nil
}

// CustomerID returns the stored Stripe customer identifier for the user, or
// "" when none has been stored yet.
func (c *Client) CustomerID(ctx context.Context, userID string) (string, error) {
	path := fmt.Sprintf("/api/v1/internal/users/%s/metadata/%s", url.PathEscape(userID), customerIDMetaKey)

	var data struct {
		Value string `json:"value"`
	}
	err := c.doJSON(ctx, http.MethodGet, path, nil, &data)
	if err != nil {
		// A user without the entry is not an error: there is simply no
		// customer record yet.
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return data.Value, nil
}

// SaveCustomerID stores the Stripe customer identifier for the user.
func (c *Client) SaveCustomerID(ctx context.Context, userID, customerID string) error {
	path := fmt.Sprintf("/api/v1/internal/users/%s/metadata/%s", url.PathEscape(userID), customerIDMetaKey)
	body := map[string]string{"value": customerID}
	return c.doJSON(ctx, http.MethodPut, path, body, nil)
}

// Order is a fetched order. Reads come from the snapshot taken at fetch
// time; mutations call back into the internal API.
type Order struct {
	client *Client
	data   orderResponse
}

func (o *Order) OrderNumber() string { return o.data.OrderNumber }
func (o *Order) Currency() string    { return o.data.Currency }
func (o *Order) Total() float64      { return o.data.Total }
func (o *Order) CheckoutURL() string { return o.data.CheckoutURL }
func (o *Order) ReceivedURL() string { return o.data.ReceivedURL }
func (o *Order) EditURL() string     { return o.data.EditURL }
func (o *Order) User() domain.User   { return o.data.User }

// HasStatus reports whether the order's status is one of the given set.
func (o *Order) HasStatus(statuses ...string) bool {
	for _, s := range statuses {
		if o.data.Status == s {
			return true
		}
	}
	return false
}

// AddMetadata attaches a metadata entry to the order.
func (o *Order) AddMetadata(ctx context.Context, key, value string, setIfAbsent bool) error {
	body := map[string]any{
		"key":           key,
		"value":         value,
		"set_if_absent": setIfAbsent,
	}
	return o.client.doJSON(ctx, http.MethodPost, o.client.orderPath(o.data.OrderNumber, "metadata"), body, nil)
}

// AddNote appends a note to the order's note log.
func (o *Order) AddNote(ctx context.Context, note string) error {
	body := map[string]string{"note": note}
	return o.client.doJSON(ctx, http.MethodPost, o.client.orderPath(o.data.OrderNumber, "notes"), body, nil)
}

// MarkPaymentSettled runs the payment-settlement transition with the given
// settlement reference. The order system picks the resulting status.
func (o *Order) MarkPaymentSettled(ctx context.Context, reference string) error {
	body := map[string]string{"transaction_id": reference}
	return o.client.doJSON(ctx, http.MethodPost, o.client.orderPath(o.data.OrderNumber, "payment-complete"), body, nil)
}

// SetStatus sets the order status directly.
func (o *Order) SetStatus(ctx context.Context, status string) error {
	body := map[string]string{"status": status}
	if err := o.client.doJSON(ctx, http.MethodPut, o.client.orderPath(o.data.OrderNumber, "status"), body, nil); err != nil {
		return err
	}
	o.data.Status = status
	return nil
}

func (c *Client) orderPath(orderNo, suffix string) string {
	path := fmt.Sprintf("/api/v1/internal/orders/%s", url.PathEscape(orderNo))
	if suffix != "" {
		path += "/" + suffix
	}
	return path
}

// doJSON performs an authenticated JSON request and decodes the response
// into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return domain.NewGatewayError(domain.ErrOrderStoreError,
				"failed to marshal request body", "ORDER_API_ERROR")
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.NewGatewayError(domain.ErrOrderStoreError,
			"failed to create request", "ORDER_API_ERROR")
	}
	req.Header.Set("X-Internal-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewGatewayError(domain.ErrOrderStoreError,
			"request failed: "+err.Error(), "ORDER_API_ERROR")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrOrderNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		respBody, _ := io.ReadAll(resp.Body)
		return domain.NewGatewayError(domain.ErrOrderStoreError,
			fmt.Sprintf("order API returned status %d: %s", resp.StatusCode, string(respBody)),
			"ORDER_API_ERROR")
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return domain.NewGatewayError(domain.ErrOrderStoreError,
				"failed to decode response", "ORDER_API_ERROR")
		}
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrOrderNotFound)
}
