package repository

import (
	"github.com/aryankm/modacart-backend/internal/app/model"
	"github.com/aryankm/modacart-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cart *model.Cart) error
	FindByUserID(userID uint) (*model.Cart, error)
	FindByGuestID(guestID string) (*model.Cart, error)
	FindLine(cartID, productID uint, size, color string) (*model.CartLine, error)
	FindLineByID(cartID, lineID uint) (*model.CartLine, error)
	CreateLine(line *model.CartLine) error
	UpdateLine(line *model.CartLine) error
	DeleteLine(lineID uint) error
	ClearLines(cartID uint) error
	Delete(cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id":  cart.UserID,
		"guest_id": cart.GuestID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id":  cart.UserID,
			"guest_id": cart.GuestID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return nil
}

func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	err := r.db.Where("user_id = ?", userID).
		Preload("Lines").
		First(&cart).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart by user ID in database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	logger.Debug("Cart found by user ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"lines":   len(cart.Lines),
	})
	return &cart, nil
}

func (r *cartRepository) FindByGuestID(guestID string) (*model.Cart, error) {
	logger.Debug("Finding cart by guest ID in database", map[string]interface{}{
		"guest_id": guestID,
	})

	var cart model.Cart
	err := r.db.Where("guest_id = ?", guestID).
		Preload("Lines").
		First(&cart).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart by guest ID in database", err, map[string]interface{}{
				"guest_id": guestID,
			})
		}
		return nil, err
	}

	logger.Debug("Cart found by guest ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"lines":   len(cart.Lines),
	})
	return &cart, nil
}

func (r *cartRepository) FindLine(cartID, productID uint, size, color string) (*model.CartLine, error) {
	logger.Debug("Finding cart line in database", map[string]interface{}{
		"cart_id":    cartID,
		"product_id": productID,
		"size":       size,
		"color":      color,
	})

	var line model.CartLine
	err := r.db.Where("cart_id = ? AND product_id = ? AND size = ? AND color = ?",
		cartID, productID, size, color).
		First(&line).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart line in database", err, map[string]interface{}{
				"cart_id":    cartID,
				"product_id": productID,
			})
		}
		return nil, err
	}

	logger.Debug("Cart line found in database", map[string]interface{}{
		"cart_line_id": line.ID,
		"quantity":     line.Quantity,
	})
	return &line, nil
}

func (r *cartRepository) FindLineByID(cartID, lineID uint) (*model.CartLine, error) {
	logger.Debug("Finding cart line by ID in database", map[string]interface{}{
		"cart_id":      cartID,
		"cart_line_id": lineID,
	})

	var line model.CartLine
	err := r.db.Where("cart_id = ?", cartID).First(&line, lineID).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart line by ID in database", err, map[string]interface{}{
				"cart_id":      cartID,
				"cart_line_id": lineID,
			})
		}
		return nil, err
	}

	logger.Debug("Cart line found by ID in database", map[string]interface{}{
		"cart_line_id": line.ID,
	})
	return &line, nil
}

func (r *cartRepository) CreateLine(line *model.CartLine) error {
	logger.Debug("Creating cart line in database", map[string]interface{}{
		"cart_id":    line.CartID,
		"product_id": line.ProductID,
		"size":       line.Size,
		"color":      line.Color,
		"quantity":   line.Quantity,
	})

	if err := r.db.Create(line).Error; err != nil {
		logger.Error("Failed to create cart line in database", err, map[string]interface{}{
			"cart_id":    line.CartID,
			"product_id": line.ProductID,
		})
		return err
	}

	logger.Debug("Cart line created in database", map[string]interface{}{
		"cart_line_id": line.ID,
	})
	return nil
}

func (r *cartRepository) UpdateLine(line *model.CartLine) error {
	logger.Debug("Updating cart line in database", map[string]interface{}{
		"cart_line_id": line.ID,
		"quantity":     line.Quantity,
	})

	if err := r.db.Save(line).Error; err != nil {
		logger.Error("Failed to update cart line in database", err, map[string]interface{}{
			"cart_line_id": line.ID,
		})
		return err
	}

	logger.Debug("Cart line updated in database", map[string]interface{}{
		"cart_line_id": line.ID,
	})
	return nil
}

func (r *cartRepository) DeleteLine(lineID uint) error {
	logger.Debug("Deleting cart line from database", map[string]interface{}{
		"cart_line_id": lineID,
	})

	if err := r.db.Delete(&model.CartLine{}, lineID).Error; err != nil {
		logger.Error("Failed to delete cart line from database", err, map[string]interface{}{
			"cart_line_id": lineID,
		})
		return err
	}

	logger.Debug("Cart line deleted from database", map[string]interface{}{
		"cart_line_id": lineID,
	})
	return nil
}

func (r *cartRepository) ClearLines(cartID uint) error {
	logger.Debug("Clearing cart lines from database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartLine{}).Error; err != nil {
		logger.Error("Failed to clear cart lines from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	logger.Debug("Cart lines cleared from database", map[string]interface{}{
		"cart_id": cartID,
	})
	return nil
}

func (r *cartRepository) Delete(cartID uint) error {
	logger.Debug("Deleting cart from database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartLine{}).Error; err != nil {
		logger.Error("Failed to delete cart lines from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	if err := r.db.Delete(&model.Cart{}, cartID).Error; err != nil {
		logger.Error("Failed to delete cart from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	logger.Debug("Cart deleted from database", map[string]interface{}{
		"cart_id": cartID,
	})
	return nil
}
