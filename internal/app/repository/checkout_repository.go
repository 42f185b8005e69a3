package repository

import (
	"github.com/aryankm/modacart-backend/internal/app/model"
	"github.com/aryankm/modacart-backend/pkg/logger"
	"gorm.io/gorm"
)

type CheckoutRepository interface {
	Create(session *model.CheckoutSession) error
	FindByID(id uint) (*model.CheckoutSession, error)
	FindOpenByUserID(userID uint) (*model.CheckoutSession, error)
	FindByGatewayOrderID(gatewayOrderID string) (*model.CheckoutSession, error)
	Update(session *model.CheckoutSession) error
}

type checkoutRepository struct {
	db *gorm.DB
}

func NewCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &checkoutRepository{db: db}
}

func (r *checkoutRepository) Create(session *model.CheckoutSession) error {
	logger.Debug("Creating checkout session in database", map[string]interface{}{
		"user_id": session.UserID,
		"cart_id": session.CartID,
		"total":   session.TotalPrice,
	})

	if err := r.db.Create(session).Error; err != nil {
		logger.Error("Failed to create checkout session in database", err, map[string]interface{}{
			"user_id": session.UserID,
			"cart_id": session.CartID,
		})
		return err
	}

	logger.Debug("Checkout session created in database", map[string]interface{}{
		"session_id": session.ID,
		"user_id":    session.UserID,
	})
	return nil
}

func (r *checkoutRepository) FindByID(id uint) (*model.CheckoutSession, error) {
	logger.Debug("Finding checkout session by ID in database", map[string]interface{}{
		"session_id": id,
	})

	var session model.CheckoutSession
	err := r.db.Preload("Items").First(&session, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find checkout session by ID in database", err, map[string]interface{}{
				"session_id": id,
			})
		}
		return nil, err
	}

	logger.Debug("Checkout session found by ID in database", map[string]interface{}{
		"session_id":     session.ID,
		"payment_status": session.PaymentStatus,
		"is_finalized":   session.IsFinalized,
	})
	return &session, nil
}

func (r *checkoutRepository) FindOpenByUserID(userID uint) (*model.CheckoutSession, error) {
	logger.Debug("Finding open checkout session by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var session model.CheckoutSession
	err := r.db.Where("user_id = ? AND payment_status = ? AND is_finalized = ?",
		userID, model.PaymentStatusUnpaid, false).
		Preload("Items").
		Order("id DESC").
		First(&session).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find open checkout session by user ID in database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	logger.Debug("Open checkout session found by user ID in database", map[string]interface{}{
		"session_id": session.ID,
		"user_id":    userID,
	})
	return &session, nil
}

func (r *checkoutRepository) FindByGatewayOrderID(gatewayOrderID string) (*model.CheckoutSession, error) {
	logger.Debug("Finding checkout session by gateway order ID in database", map[string]interface{}{
		"gateway_order_id": gatewayOrderID,
	})

	var session model.CheckoutSession
	err := r.db.Where("gateway_order_id = ?", gatewayOrderID).
		Preload("Items").
		First(&session).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find checkout session by gateway order ID in database", err, map[string]interface{}{
				"gateway_order_id": gatewayOrderID,
			})
		}
		return nil, err
	}

	logger.Debug("Checkout session found by gateway order ID in database", map[string]interface{}{
		"session_id":       session.ID,
		"gateway_order_id": gatewayOrderID,
	})
	return &session, nil
}

func (r *checkoutRepository) Update(session *model.CheckoutSession) error {
	logger.Debug("Updating checkout session in database", map[string]interface{}{
		"session_id":     session.ID,
		"payment_status": session.PaymentStatus,
		"is_finalized":   session.IsFinalized,
	})

	if err := r.db.Save(session).Error; err != nil {
		logger.Error("Failed to update checkout session in database", err, map[string]interface{}{
			"session_id": session.ID,
		})
		return err
	}

	logger.Debug("Checkout session updated in database", map[string]interface{}{
		"session_id": session.ID,
	})
	return nil
}
