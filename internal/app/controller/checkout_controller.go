package controller

import (
	goerrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/aryankm/modacart-backend/internal/app/service"
	"github.com/aryankm/modacart-backend/internal/errors"
	"github.com/aryankm/modacart-backend/internal/middleware"
	"github.com/aryankm/modacart-backend/pkg/payment/razorpay"
	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type CreateCheckoutRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type PayCheckoutRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

func sessionIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid checkout session ID")
		return 0, false
	}
	return uint(id), true
}

// CreateCheckout freezes the cart and shipping address into a checkout
// session. An open unpaid session is returned instead of creating another.
// POST /api/v1/checkout
func (ctrl *CheckoutController) CreateCheckout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Checkout without authentication")
		errors.Unauthorized(c, "")
		return
	}

	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	address := service.ShippingAddress{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
	}

	session, err := ctrl.checkoutService.CreateSession(c.Request.Context(), userID, address)
	if err != nil {
		if goerrors.Is(err, service.ErrAddressIncomplete) {
			fields := map[string]string{}
			for _, name := range address.MissingFields() {
				fields[name] = "required"
			}
			log.Warn("Checkout with incomplete address", map[string]interface{}{
				"user_id": userID,
				"fields":  fields,
			})
			errors.RespondWithValidationError(c, fields)
			return
		}
		if goerrors.Is(err, service.ErrEmptyCart) {
			log.Warn("Checkout with empty cart", map[string]interface{}{
				"user_id": userID,
			})
			errors.BadRequest(c, errors.CartEmpty, "Your cart is empty")
			return
		}
		log.Error("Failed to create checkout session", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.RespondWithError(c, http.StatusBadGateway, errors.PaymentGatewayError, "Failed to start checkout. Please try again later")
		return
	}

	log.Info("Checkout session created", map[string]interface{}{
		"user_id":    userID,
		"session_id": session.ID,
		"total":      session.TotalPrice,
	})

	c.JSON(http.StatusCreated, gin.H{
		"session": session,
	})
}

// GetCheckout returns one of the user's checkout sessions
// GET /api/v1/checkout/:id
func (ctrl *CheckoutController) GetCheckout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	session, err := ctrl.checkoutService.GetSession(userID, sessionID)
	if err != nil {
		if goerrors.Is(err, service.ErrCheckoutNotFound) {
			errors.NotFound(c, errors.CheckoutNotFound, "Checkout session not found")
			return
		}
		if goerrors.Is(err, service.ErrSessionAccess) {
			errors.Forbidden(c, "")
			return
		}
		log.Error("Failed to fetch checkout session", err, map[string]interface{}{
			"session_id": sessionID,
		})
		errors.RespondFromError(c, err, "checkout session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
	})
}

// PayCheckout records the gateway's payment confirmation on the session.
// Duplicate confirmations are acknowledged without changing anything; a bad
// signature leaves the session unpaid so the payment can be retried.
// PUT /api/v1/checkout/:id/pay
func (ctrl *CheckoutController) PayCheckout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Payment confirmation without authentication")
		errors.Unauthorized(c, "")
		return
	}

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req PayCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid payment confirmation request", map[string]interface{}{
			"user_id":    userID,
			"session_id": sessionID,
			"error":      err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	session, err := ctrl.checkoutService.MarkPaid(userID, sessionID, razorpay.CallbackDetails{
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
	})
	if err != nil {
		switch {
		case goerrors.Is(err, service.ErrCheckoutNotFound):
			errors.NotFound(c, errors.CheckoutNotFound, "Checkout session not found")
		case goerrors.Is(err, service.ErrSessionAccess):
			errors.Forbidden(c, "")
		case goerrors.Is(err, service.ErrSessionFinalized):
			errors.Conflict(c, errors.CheckoutAlreadyFinalized, "This checkout has already been completed")
		case goerrors.Is(err, service.ErrInvalidSignature):
			log.Warn("Payment signature verification failed", map[string]interface{}{
				"user_id":    userID,
				"session_id": sessionID,
			})
			errors.BadRequest(c, errors.PaymentInvalidSignature, "Payment verification failed. Please try again")
		case goerrors.Is(err, service.ErrGatewayOrderAbsent):
			errors.BadRequest(c, errors.PaymentFailed, "Payment does not belong to this checkout")
		default:
			log.Error("Failed to confirm payment", err, map[string]interface{}{
				"user_id":    userID,
				"session_id": sessionID,
			})
			errors.RespondFromError(c, err, "payment")
		}
		return
	}

	log.Info("Payment confirmed", map[string]interface{}{
		"user_id":     userID,
		"session_id":  sessionID,
		"payment_ref": session.PaymentRef,
	})

	c.JSON(http.StatusOK, gin.H{
		"session": session,
	})
}

// FinalizeCheckout turns a paid session into an order. Calling it again for
// the same session returns the order it already produced.
// POST /api/v1/checkout/:id/finalize
func (ctrl *CheckoutController) FinalizeCheckout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Finalize without authentication")
		errors.Unauthorized(c, "")
		return
	}

	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	order, err := ctrl.checkoutService.Finalize(userID, sessionID)
	if err != nil {
		switch {
		case goerrors.Is(err, service.ErrCheckoutNotFound):
			errors.NotFound(c, errors.CheckoutNotFound, "Checkout session not found")
		case goerrors.Is(err, service.ErrSessionAccess):
			errors.Forbidden(c, "")
		case goerrors.Is(err, service.ErrSessionNotPaid):
			log.Warn("Finalize before payment", map[string]interface{}{
				"user_id":    userID,
				"session_id": sessionID,
			})
			errors.BadRequest(c, errors.CheckoutNotPaid, "Payment has not been completed for this checkout")
		case goerrors.Is(err, service.ErrSessionFinalized):
			errors.Conflict(c, errors.CheckoutAlreadyFinalized, "This checkout has already been completed")
		default:
			log.Error("Failed to finalize checkout", err, map[string]interface{}{
				"user_id":    userID,
				"session_id": sessionID,
			})
			errors.RespondFromError(c, err, "finalize order")
		}
		return
	}

	log.Info("Checkout finalized", map[string]interface{}{
		"user_id":    userID,
		"session_id": sessionID,
		"order_id":   order.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// PaymentWebhook receives payment event deliveries from the gateway. The
// HMAC signature header authenticates the caller; there is no user session.
// Deliveries are acknowledged with 200 even when the event is not one we
// act on, so the gateway stops retrying.
// POST /api/v1/payment/webhook
func (ctrl *CheckoutController) PaymentWebhook(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Unreadable webhook body")
		return
	}

	signature := c.GetHeader(razorpay.WebhookHeader)
	if err := ctrl.checkoutService.HandleGatewayWebhook(body, signature); err != nil {
		switch {
		case goerrors.Is(err, service.ErrInvalidSignature):
			log.Warn("Webhook with invalid signature", map[string]interface{}{
				"ip": c.ClientIP(),
			})
			errors.BadRequest(c, errors.PaymentInvalidSignature, "Webhook signature verification failed")
		case goerrors.Is(err, service.ErrCheckoutNotFound):
			errors.NotFound(c, errors.CheckoutNotFound, "No checkout matches this payment")
		default:
			log.Error("Failed to process payment webhook", err)
			errors.RespondFromError(c, err, "payment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
