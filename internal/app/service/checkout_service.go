package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aryankm/modacart-backend/internal/app/model"
	"github.com/aryankm/modacart-backend/internal/app/repository"
	"github.com/aryankm/modacart-backend/pkg/logger"
	"github.com/aryankm/modacart-backend/pkg/payment/razorpay"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCheckoutNotFound   = errors.New("checkout session not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrAddressIncomplete  = errors.New("shipping address is incomplete")
	ErrSessionFinalized   = errors.New("checkout session already finalized")
	ErrSessionNotPaid     = errors.New("checkout session is not paid")
	ErrInvalidSignature   = errors.New("payment signature verification failed")
	ErrSessionAccess      = errors.New("checkout session belongs to another user")
	ErrGatewayOrderAbsent = errors.New("payment does not match this checkout session")
)

// ShippingAddress is the delivery destination captured at checkout.
// Every field is mandatory.
type ShippingAddress struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// MissingFields lists the empty address fields by their JSON names
func (a ShippingAddress) MissingFields() []string {
	var missing []string
	for name, value := range map[string]string{
		"first_name":  a.FirstName,
		"last_name":   a.LastName,
		"address":     a.Address,
		"city":        a.City,
		"postal_code": a.PostalCode,
		"country":     a.Country,
		"phone":       a.Phone,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// PaymentGateway is the slice of the Razorpay client the checkout flow needs
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
	VerifyPaymentSignature(details razorpay.CallbackDetails) error
	VerifyWebhookSignature(body []byte, signature string) error
}

type CheckoutService interface {
	CreateSession(ctx context.Context, userID uint, address ShippingAddress) (*model.CheckoutSession, error)
	GetSession(userID, sessionID uint) (*model.CheckoutSession, error)
	MarkPaid(userID, sessionID uint, details razorpay.CallbackDetails) (*model.CheckoutSession, error)
	HandleGatewayWebhook(body []byte, signature string) error
	Finalize(userID, sessionID uint) (*model.Order, error)
}

type checkoutService struct {
	checkoutRepo repository.CheckoutRepository
	cartRepo     repository.CartRepository
	orderRepo    repository.OrderRepository
	gateway      PaymentGateway
	db           *gorm.DB
}

func NewCheckoutService(
	checkoutRepo repository.CheckoutRepository,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	gateway PaymentGateway,
	db *gorm.DB,
) CheckoutService {
	return &checkoutService{
		checkoutRepo: checkoutRepo,
		cartRepo:     cartRepo,
		orderRepo:    orderRepo,
		gateway:      gateway,
		db:           db,
	}
}

// CreateSession freezes the user's cart and shipping address into a checkout
// session and registers a gateway order for the total. If the user already
// has an open unpaid session, that session is returned instead of stacking a
// new one.
func (s *checkoutService) CreateSession(ctx context.Context, userID uint, address ShippingAddress) (*model.CheckoutSession, error) {
	logger.Info("Creating checkout session", map[string]interface{}{
		"user_id": userID,
		"city":    address.City,
		"country": address.Country,
	})

	if missing := address.MissingFields(); len(missing) > 0 {
		logger.Warn("Checkout rejected: incomplete shipping address", map[string]interface{}{
			"user_id":        userID,
			"missing_fields": missing,
		})
		return nil, ErrAddressIncomplete
	}

	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if cart.IsEmpty() {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	// Reuse an open session rather than piling up gateway orders for the
	// same purchase intent
	if existing, err := s.checkoutRepo.FindOpenByUserID(userID); err == nil {
		logger.Info("Reusing open checkout session", map[string]interface{}{
			"user_id":    userID,
			"session_id": existing.ID,
		})
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	total := cart.TotalPrice()
	gatewayOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:  int64(math.Round(total * 100)),
		Receipt: "rcpt_" + uuid.NewString()[:13],
		Notes: map[string]string{
			"user_id": fmt.Sprintf("%d", userID),
		},
	})
	if err != nil {
		logger.Error("Failed to create gateway order", err, map[string]interface{}{
			"user_id": userID,
			"total":   total,
		})
		return nil, err
	}

	session := &model.CheckoutSession{
		UserID:         userID,
		CartID:         cart.ID,
		FirstName:      address.FirstName,
		LastName:       address.LastName,
		Address:        address.Address,
		City:           address.City,
		PostalCode:     address.PostalCode,
		Country:        address.Country,
		Phone:          address.Phone,
		TotalPrice:     total,
		PaymentStatus:  model.PaymentStatusUnpaid,
		GatewayOrderID: gatewayOrder.ID,
	}
	for _, line := range cart.Lines {
		session.Items = append(session.Items, model.CheckoutItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Price:     line.Price,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
		})
	}

	if err := s.checkoutRepo.Create(session); err != nil {
		return nil, err
	}

	logger.Info("Checkout session created", map[string]interface{}{
		"user_id":          userID,
		"session_id":       session.ID,
		"gateway_order_id": session.GatewayOrderID,
		"total":            total,
		"items":            len(session.Items),
	})

	return session, nil
}

func (s *checkoutService) GetSession(userID, sessionID uint) (*model.CheckoutSession, error) {
	session, err := s.checkoutRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckoutNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionAccess
	}
	return session, nil
}

// MarkPaid records the gateway's payment confirmation on the session after
// verifying the callback signature. Confirming an already-paid session is a
// no-op, so the gateway can safely retry the callback. A failed confirmation
// leaves the session unpaid and retryable.
func (s *checkoutService) MarkPaid(userID, sessionID uint, details razorpay.CallbackDetails) (*model.CheckoutSession, error) {
	logger.Info("Processing payment confirmation", map[string]interface{}{
		"user_id":          userID,
		"session_id":       sessionID,
		"gateway_order_id": details.OrderID,
	})

	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.IsFinalized {
		logger.Warn("Payment confirmation rejected: session already finalized", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, ErrSessionFinalized
	}

	if session.IsPaid() {
		logger.Info("Session already paid, ignoring duplicate confirmation", map[string]interface{}{
			"session_id":  sessionID,
			"payment_ref": session.PaymentRef,
		})
		return session, nil
	}

	if details.OrderID != session.GatewayOrderID {
		logger.Warn("Payment confirmation rejected: gateway order mismatch", map[string]interface{}{
			"session_id": sessionID,
			"expected":   session.GatewayOrderID,
			"got":        details.OrderID,
		})
		return nil, ErrGatewayOrderAbsent
	}

	if err := s.gateway.VerifyPaymentSignature(details); err != nil {
		logger.Warn("Payment confirmation rejected: bad signature", map[string]interface{}{
			"session_id":       sessionID,
			"gateway_order_id": details.OrderID,
		})
		return nil, ErrInvalidSignature
	}

	now := time.Now()
	session.PaymentStatus = model.PaymentStatusPaid
	session.PaymentRef = details.PaymentID
	session.PaidAt = &now

	if err := s.checkoutRepo.Update(session); err != nil {
		return nil, err
	}

	logger.Info("Payment confirmed for checkout session", map[string]interface{}{
		"session_id":  sessionID,
		"payment_ref": session.PaymentRef,
	})

	return session, nil
}

// HandleGatewayWebhook processes a webhook delivery from the payment
// gateway. Signature verification uses the webhook secret, not the checkout
// callback secret; only payment.captured events change state. Webhooks are
// redelivered on timeouts, so confirming an already-paid session is a no-op.
func (s *checkoutService) HandleGatewayWebhook(body []byte, signature string) error {
	if err := s.gateway.VerifyWebhookSignature(body, signature); err != nil {
		logger.Warn("Webhook rejected: bad signature")
		return ErrInvalidSignature
	}

	var event razorpay.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Warn("Webhook rejected: malformed payload", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("malformed webhook payload: %w", err)
	}

	if event.Event != razorpay.EventPaymentCaptured {
		logger.Debug("Ignoring webhook event", map[string]interface{}{
			"event": event.Event,
		})
		return nil
	}

	payment := event.Payload.Payment.Entity
	logger.Info("Processing payment.captured webhook", map[string]interface{}{
		"gateway_order_id": payment.OrderID,
		"payment_ref":      payment.ID,
	})

	session, err := s.checkoutRepo.FindByGatewayOrderID(payment.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Webhook for unknown gateway order", map[string]interface{}{
				"gateway_order_id": payment.OrderID,
			})
			return ErrCheckoutNotFound
		}
		return err
	}

	if session.IsPaid() {
		logger.Info("Session already paid, ignoring webhook redelivery", map[string]interface{}{
			"session_id":  session.ID,
			"payment_ref": session.PaymentRef,
		})
		return nil
	}

	if session.IsFinalized {
		return ErrSessionFinalized
	}

	now := time.Now()
	session.PaymentStatus = model.PaymentStatusPaid
	session.PaymentRef = payment.ID
	session.PaidAt = &now

	if err := s.checkoutRepo.Update(session); err != nil {
		return err
	}

	logger.Info("Payment confirmed via webhook", map[string]interface{}{
		"session_id":  session.ID,
		"payment_ref": payment.ID,
	})
	return nil
}

// Finalize turns a paid session into an order exactly once. The session row
// is locked for the duration, so concurrent finalize calls serialize: the
// first one creates the order, every later one gets the same order back.
// Order creation, marking the session finalized, and clearing the cart
// commit together or not at all.
func (s *checkoutService) Finalize(userID, sessionID uint) (*model.Order, error) {
	logger.Info("Finalizing checkout session", map[string]interface{}{
		"user_id":    userID,
		"session_id": sessionID,
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during finalize, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"session_id": sessionID,
			})
		}
	}()

	var session model.CheckoutSession
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&session, sessionID).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckoutNotFound
		}
		logger.Error("Failed to fetch session for finalize", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	if session.UserID != userID {
		tx.Rollback()
		return nil, ErrSessionAccess
	}

	// Replay of a finalized session returns the order it already produced
	if session.IsFinalized {
		tx.Rollback()
		if session.OrderID == nil {
			return nil, ErrSessionFinalized
		}
		logger.Info("Session already finalized, returning existing order", map[string]interface{}{
			"session_id": sessionID,
			"order_id":   *session.OrderID,
		})
		return s.orderRepo.FindByID(*session.OrderID)
	}

	if !session.IsPaid() {
		tx.Rollback()
		logger.Warn("Finalize rejected: session not paid", map[string]interface{}{
			"session_id":     sessionID,
			"payment_status": session.PaymentStatus,
		})
		return nil, ErrSessionNotPaid
	}

	order := &model.Order{
		UserID:     session.UserID,
		SessionID:  session.ID,
		FirstName:  session.FirstName,
		LastName:   session.LastName,
		Address:    session.Address,
		City:       session.City,
		PostalCode: session.PostalCode,
		Country:    session.Country,
		Phone:      session.Phone,
		TotalPrice: session.TotalPrice,
		Status:     model.OrderStatusProcessing,
		IsPaid:     true,
		PaidAt:     session.PaidAt,
		PaymentRef: session.PaymentRef,
	}
	for _, item := range session.Items {
		order.Items = append(order.Items, model.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
		})
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order during finalize", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	session.IsFinalized = true
	session.OrderID = &order.ID
	if err := tx.Save(&session).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to mark session finalized", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	if err := tx.Where("cart_id = ?", session.CartID).Delete(&model.CartLine{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart during finalize", err, map[string]interface{}{
			"session_id": sessionID,
			"cart_id":    session.CartID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit finalize", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	logger.Info("Checkout session finalized", map[string]interface{}{
		"session_id": sessionID,
		"order_id":   order.ID,
		"total":      order.TotalPrice,
	})

	return order, nil
}
