// Package paypal implements the outbound client for PayPal's hosted checkout
// REST API: OAuth token caching, order create/capture/refund, and webhook
// signature verification.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forye/checkout-gateway/internal/application"
	"github.com/forye/checkout-gateway/internal/config"
	"github.com/forye/checkout-gateway/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	sandboxBaseURL = "https://api.sandbox.paypal.com"
	liveBaseURL    = "https://api.paypal.com"
)

type Client struct {
	cfg        config.PayPalConfig
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	tokens tokenCache
}

var _ application.ProviderClient = (*Client)(nil)

func NewClient(cfg config.PayPalConfig, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Sandbox {
			baseURL = sandboxBaseURL
		} else {
			baseURL = liveBaseURL
		}
	}

	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
		logger: logger,
	}
}

// CreateOrder creates a checkout order and returns the provider token plus
// the payer approval URL. Each attempt carries a fresh idempotency key, so a
// retry creates a new order rather than resuming this one.
func (c *Client) CreateOrder(ctx context.Context, customID string, price decimal.Decimal, description string) (*domain.OrderHandle, error) {
	money, err := domain.NewMoney(price)
	if err != nil {
		return nil, err
	}

	payload := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnitPayload{{
			CustomID:    customID,
			Description: description,
			Amount: amountPayload{
				CurrencyCode: money.Currency,
				Value:        money.Value(),
			},
		}},
		ApplicationContext: applicationContextPayload{
			BrandName:          c.cfg.BrandName,
			Locale:             c.cfg.Locale,
			LandingPage:        "NO_PREFERENCE",
			UserAction:         "PAY_NOW",
			ShippingPreference: "GET_FROM_FILE",
			ReturnURL:          c.cfg.ReturnURL,
			CancelURL:          c.cfg.CancelURL,
		},
	}

	headers, err := c.bearerHeaders(ctx)
	if err != nil {
		return nil, err
	}
	headers["PayPal-Request-Id"] = uuid.NewString()
	headers["Prefer"] = "return=representation"

	status, body, err := c.post(ctx, "/v2/checkout/orders", headers, payload)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}

	var resp createOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("error decoding create order response: %w", err)
	}

	var approvalURL string
	for _, link := range resp.Links {
		if strings.EqualFold(link.Rel, "approve") {
			approvalURL = link.Href
			break
		}
	}

	if !strings.EqualFold(resp.Status, "CREATED") || resp.ID == "" || approvalURL == "" {
		return nil, fmt.Errorf("create order response missing CREATED status, id or approve link: %w", ErrMalformedResponse)
	}

	return &domain.OrderHandle{Token: resp.ID, ApprovalURL: approvalURL}, nil
}

// CaptureOrder claims the funds of an approved order. The provider allows at
// most one capture per order; a second attempt is rejected remotely.
func (c *Client) CaptureOrder(ctx context.Context, orderToken string) (string, error) {
	headers, err := c.bearerHeaders(ctx)
	if err != nil {
		return "", err
	}
	headers["PayPal-Request-Id"] = uuid.NewString()

	status, body, err := c.post(ctx, fmt.Sprintf("/v2/checkout/orders/%s/capture", orderToken), headers, nil)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", &APIError{StatusCode: status, Body: string(body)}
	}

	var resp captureOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("error decoding capture response: %w", err)
	}

	if len(resp.PurchaseUnits) == 0 || len(resp.PurchaseUnits[0].Payments.Captures) == 0 {
		return "", fmt.Errorf("capture response missing capture id: %w", ErrMalformedResponse)
	}
	captureID := resp.PurchaseUnits[0].Payments.Captures[0].ID
	if captureID == "" {
		return "", fmt.Errorf("capture response missing capture id: %w", ErrMalformedResponse)
	}

	return captureID, nil
}

// RefundOrder refunds a captured amount. Success requires exactly HTTP 201
// and a COMPLETED body status; the provider answers 201 specifically on
// refund creation, so a plain 2xx is not enough.
func (c *Client) RefundOrder(ctx context.Context, captureID string, price decimal.Decimal, description string) error {
	money, err := domain.NewMoney(price)
	if err != nil {
		return err
	}

	payload := refundRequest{
		NoteToPayer: description,
		Amount: amountPayload{
			CurrencyCode: money.Currency,
			Value:        money.Value(),
		},
	}

	headers, err := c.bearerHeaders(ctx)
	if err != nil {
		return err
	}
	headers["PayPal-Request-Id"] = uuid.NewString()

	status, body, err := c.post(ctx, fmt.Sprintf("/v2/payments/captures/%s/refund", captureID), headers, payload)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return &APIError{StatusCode: status, Body: string(body)}
	}

	var resp refundResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("error decoding refund response: %w", err)
	}
	if !strings.EqualFold(resp.Status, "COMPLETED") {
		return fmt.Errorf("refund status %q: %w", resp.Status, ErrRefundNotCompleted)
	}

	return nil
}

func (c *Client) bearerHeaders(ctx context.Context) (map[string]string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{"Authorization": "Bearer " + token}, nil
}

func (c *Client) post(ctx context.Context, path string, headers map[string]string, reqBody any) (int, []byte, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return 0, nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("error creating request: %w", err)
	}

	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("error reading response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
