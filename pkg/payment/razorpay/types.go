package razorpay

import "fmt"

// OrderRequest represents the request parameters for the Orders API.
// Amount is in the currency's smallest unit (paise for INR).
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order represents a gateway order created via the Orders API
type Order struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	AmountDue  int64             `json:"amount_due"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	Status     string            `json:"status"`
	Attempts   int               `json:"attempts"`
	Notes      map[string]string `json:"notes,omitempty"`
	CreatedAt  int64             `json:"created_at"`
}

// Payment is the payment entity as delivered in webhook payloads
type Payment struct {
	ID          string `json:"id"`
	Entity      string `json:"entity"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	OrderID     string `json:"order_id"`
	Method      string `json:"method"`
	Email       string `json:"email"`
	Contact     string `json:"contact"`
	ErrorCode   string `json:"error_code,omitempty"`
	ErrorReason string `json:"error_reason,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// CallbackDetails are the fields the checkout widget hands to its success
// handler; the signature binds the payment id to the gateway order id.
type CallbackDetails struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// EventPaymentCaptured is the webhook event fired once a payment is
// captured against an order.
const EventPaymentCaptured = "payment.captured"

// WebhookHeader carries the HMAC signature of a webhook delivery.
const WebhookHeader = "X-Razorpay-Signature"

// WebhookEvent is the envelope of a webhook delivery
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity Payment `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
	CreatedAt int64 `json:"created_at"`
}

// ErrorResponse represents an error response from the Razorpay API
type ErrorResponse struct {
	ErrorBody struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Reason      string `json:"reason,omitempty"`
	} `json:"error"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("razorpay error: code=%s, description=%s", e.ErrorBody.Code, e.ErrorBody.Description)
}
