package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// RazorpayClient talks to the Razorpay Orders API over REST with basic
// auth. Constructed once and injected into the services that need it.
type RazorpayClient struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

// NewRazorpayClient creates a gateway client with the given API key pair.
func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   razorpayBaseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateOrder creates an order via POST /v1/orders.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	return c.do(req)
}

// FetchOrder returns the order via GET /v1/orders/{id}.
func (c *RazorpayClient) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders/"+orderID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fetch request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)

	return c.do(req)
}

func (c *RazorpayClient) do(req *http.Request) (*Order, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, body)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return &order, nil
}
