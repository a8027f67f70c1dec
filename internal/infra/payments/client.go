// Package payments talks to the hosted-checkout payment provider over its
// REST API and verifies the signed webhooks it sends back.
package payments

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

	"staykit/internal/app/policies"
)

// Client creates hosted checkout sessions. The guest pays on the provider's
// page and the provider reports the outcome through the webhook.
type Client struct {
	baseURL    string
	secretKey  string
	successURL string
	cancelURL  string
	httpClient *http.Client
}

type ClientConfig struct {
	BaseURL    string
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:  cfg.SecretKey,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params policies.CheckoutParams) (policies.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)
	form.Set("customer_email", params.CustomerEmail)
	form.Set("metadata[booking_id]", params.BookingID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(params.Amount.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.Amount.Amount, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.PropertyName)
	if params.Description != "" {
		form.Set("line_items[0][price_data][product_data][description]", params.Description)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return policies.CheckoutSession{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return policies.CheckoutSession{}, fmt.Errorf("payments: create session: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return policies.CheckoutSession{}, err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return policies.CheckoutSession{}, fmt.Errorf("payments: provider rejected session: %s", apiErr.Error.Message)
		}
		return policies.CheckoutSession{}, fmt.Errorf("payments: provider returned status %d", resp.StatusCode)
	}

	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return policies.CheckoutSession{}, fmt.Errorf("payments: decode session: %w", err)
	}
	return policies.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}
