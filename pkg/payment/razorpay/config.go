package razorpay

// Config represents the configuration for the Razorpay client
type Config struct {
	// KeyID is the API key id used for basic authentication
	KeyID string

	// KeySecret is the API key secret; also signs checkout callbacks
	KeySecret string

	// WebhookSecret signs webhook payloads (optional, webhooks only)
	WebhookSecret string

	// BaseURL is the Razorpay API base URL
	BaseURL string

	// Currency is the ISO currency code used for gateway orders
	Currency string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.KeyID == "" {
		return ErrInvalidRequest
	}
	if c.KeySecret == "" {
		return ErrInvalidRequest
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	if c.Currency == "" {
		return ErrInvalidRequest
	}
	return nil
}
