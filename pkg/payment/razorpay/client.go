package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client represents a Razorpay API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Razorpay client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// CreateOrder registers a gateway order for the given amount. The returned
// order id is what the checkout widget is invoked with.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.Currency == "" {
		req.Currency = c.config.Currency
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "orders", req)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	var order Order
	if err := json.Unmarshal(resp, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order response: %w", err)
	}

	return &order, nil
}

// VerifyPaymentSignature validates the signature the checkout widget passes
// to its success handler: HMAC-SHA256 of "order_id|payment_id" keyed with
// the key secret.
func (c *Client) VerifyPaymentSignature(details CallbackDetails) error {
	if details.OrderID == "" || details.PaymentID == "" || details.Signature == "" {
		return ErrInvalidSignature
	}

	payload := details.OrderID + "|" + details.PaymentID
	if !verifyHMAC(payload, details.Signature, c.config.KeySecret) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyWebhookSignature validates the X-Razorpay-Signature header of a
// webhook delivery against the raw body.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) error {
	if c.config.WebhookSecret == "" || signature == "" {
		return ErrInvalidSignature
	}
	if !verifyHMAC(string(body), signature, c.config.WebhookSecret) {
		return ErrInvalidSignature
	}
	return nil
}

func verifyHMAC(payload, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// doRequest performs an HTTP request against the Razorpay API
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewBuffer(reqBody)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.config.KeyID, c.config.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil {
			return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
		}

		errorMsg := fmt.Sprintf("Razorpay API error - Status: %d, Code: %s, Description: %s",
			resp.StatusCode, errResp.ErrorBody.Code, errResp.ErrorBody.Description)

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, errorMsg)
		}
	}

	return respBody, nil
}
