package service

import (
	"errors"
	"fmt"

	"github.com/aryankm/modacart-backend/internal/app/model"
	"github.com/aryankm/modacart-backend/internal/app/repository"
	"github.com/aryankm/modacart-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartIdentityRequired = errors.New("cart identity required")
	ErrCartLineNotFound     = errors.New("cart line not found")
	ErrOptionRequired       = errors.New("size and color are required")
	ErrInvalidOption        = errors.New("product does not offer this option")
)

// CartIdentity names the owner of a cart: exactly one of UserID or GuestID
// is set. Authenticated requests carry the user ID from the token; anonymous
// requests carry the guest ID issued by the client.
type CartIdentity struct {
	UserID  *uint
	GuestID string
}

func (id CartIdentity) valid() bool {
	return id.UserID != nil || id.GuestID != ""
}

type CartService interface {
	GetCart(identity CartIdentity) (*model.Cart, error)
	AddLine(identity CartIdentity, productID uint, size, color string, quantity int) (*model.Cart, error)
	UpdateLineQuantity(identity CartIdentity, lineID uint, quantity int) (*model.Cart, error)
	RemoveLine(identity CartIdentity, lineID uint) (*model.Cart, error)
	ClearCart(identity CartIdentity) error
	MergeGuestCart(userID uint, guestID string) (*model.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		db:          db,
	}
}

// GetCart returns the identity's cart. An identity that never added anything
// gets an empty cart back, not an error.
func (s *cartService) GetCart(identity CartIdentity) (*model.Cart, error) {
	if !identity.valid() {
		return nil, ErrCartIdentityRequired
	}

	cart, err := s.findCart(identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.emptyCart(identity), nil
		}
		return nil, err
	}
	return cart, nil
}

func (s *cartService) AddLine(identity CartIdentity, productID uint, size, color string, quantity int) (*model.Cart, error) {
	if !identity.valid() {
		return nil, ErrCartIdentityRequired
	}
	if size == "" || color == "" {
		logger.Warn("Add to cart rejected: missing options", map[string]interface{}{
			"product_id": productID,
			"size":       size,
			"color":      color,
		})
		return nil, ErrOptionRequired
	}
	if quantity < 1 {
		quantity = 1
	}

	logger.Info("Adding line to cart", map[string]interface{}{
		"product_id": productID,
		"size":       size,
		"color":      color,
		"quantity":   quantity,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.HasSize(size) || !product.HasColor(color) {
		logger.Warn("Add to cart rejected: option not offered", map[string]interface{}{
			"product_id": productID,
			"size":       size,
			"color":      color,
		})
		return nil, ErrInvalidOption
	}

	cart, err := s.getOrCreateCart(identity)
	if err != nil {
		return nil, err
	}

	// Same (product, size, color) combination raises the quantity
	existing, err := s.cartRepo.FindLine(cart.ID, productID, size, color)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Quantity += quantity
		if err := s.cartRepo.UpdateLine(existing); err != nil {
			return nil, err
		}
	} else {
		line := &model.CartLine{
			CartID:    cart.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.Price,
			Size:      size,
			Color:     color,
			Quantity:  quantity,
		}
		if err := s.cartRepo.CreateLine(line); err != nil {
			return nil, err
		}
	}

	return s.findCart(identity)
}

// UpdateLineQuantity sets the quantity of an existing line. Quantities below
// one are ignored and the cart comes back unchanged; removal goes through
// RemoveLine.
func (s *cartService) UpdateLineQuantity(identity CartIdentity, lineID uint, quantity int) (*model.Cart, error) {
	if !identity.valid() {
		return nil, ErrCartIdentityRequired
	}

	cart, err := s.findCart(identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartLineNotFound
		}
		return nil, err
	}

	line, err := s.cartRepo.FindLineByID(cart.ID, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartLineNotFound
		}
		return nil, err
	}

	if quantity < 1 {
		logger.Debug("Ignoring quantity update below one", map[string]interface{}{
			"cart_line_id": lineID,
			"quantity":     quantity,
		})
		return cart, nil
	}

	line.Quantity = quantity
	if err := s.cartRepo.UpdateLine(line); err != nil {
		return nil, err
	}

	return s.findCart(identity)
}

// RemoveLine deletes a line from the cart. Removing a line that is already
// gone succeeds.
func (s *cartService) RemoveLine(identity CartIdentity, lineID uint) (*model.Cart, error) {
	if !identity.valid() {
		return nil, ErrCartIdentityRequired
	}

	cart, err := s.findCart(identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.emptyCart(identity), nil
		}
		return nil, err
	}

	line, err := s.cartRepo.FindLineByID(cart.ID, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart, nil
		}
		return nil, err
	}

	if err := s.cartRepo.DeleteLine(line.ID); err != nil {
		return nil, err
	}

	return s.findCart(identity)
}

func (s *cartService) ClearCart(identity CartIdentity) error {
	if !identity.valid() {
		return ErrCartIdentityRequired
	}

	cart, err := s.findCart(identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return s.cartRepo.ClearLines(cart.ID)
}

// MergeGuestCart folds the guest's cart into the user's cart and deletes the
// guest cart in the same transaction. Lines with the same
// (product, size, color) combination merge by summing quantities. A second
// merge with the same guest ID finds no guest cart and is a no-op, so retried
// logins cannot double the quantities.
func (s *cartService) MergeGuestCart(userID uint, guestID string) (*model.Cart, error) {
	logger.Info("Merging guest cart into user cart", map[string]interface{}{
		"user_id":  userID,
		"guest_id": guestID,
	})

	if guestID == "" {
		return nil, ErrCartIdentityRequired
	}

	guestCart, err := s.cartRepo.FindByGuestID(guestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("No guest cart to merge", map[string]interface{}{
				"user_id":  userID,
				"guest_id": guestID,
			})
			return s.GetCart(CartIdentity{UserID: &userID})
		}
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during cart merge, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id":  userID,
				"guest_id": guestID,
			})
		}
	}()

	var userCart model.Cart
	err = tx.Where("user_id = ?", userID).Preload("Lines").First(&userCart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		userCart = model.Cart{UserID: &userID}
		if err := tx.Create(&userCart).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to create user cart during merge", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}
	} else if err != nil {
		tx.Rollback()
		logger.Error("Failed to fetch user cart during merge", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	for _, guestLine := range guestCart.Lines {
		merged := false
		for i := range userCart.Lines {
			userLine := &userCart.Lines[i]
			if userLine.MatchesKey(guestLine.ProductID, guestLine.Size, guestLine.Color) {
				userLine.Quantity += guestLine.Quantity
				if err := tx.Save(userLine).Error; err != nil {
					tx.Rollback()
					logger.Error("Failed to merge cart line quantities", err, map[string]interface{}{
						"cart_line_id": userLine.ID,
					})
					return nil, err
				}
				merged = true
				break
			}
		}
		if merged {
			continue
		}

		line := model.CartLine{
			CartID:    userCart.ID,
			ProductID: guestLine.ProductID,
			Name:      guestLine.Name,
			Image:     guestLine.Image,
			Price:     guestLine.Price,
			Size:      guestLine.Size,
			Color:     guestLine.Color,
			Quantity:  guestLine.Quantity,
		}
		if err := tx.Create(&line).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to copy guest cart line", err, map[string]interface{}{
				"product_id": guestLine.ProductID,
			})
			return nil, err
		}
	}

	// Dropping the guest cart inside the transaction is what makes the
	// merge single-shot
	if err := tx.Where("cart_id = ?", guestCart.ID).Delete(&model.CartLine{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete guest cart lines during merge", err, map[string]interface{}{
			"guest_id": guestID,
		})
		return nil, err
	}
	if err := tx.Delete(&model.Cart{}, guestCart.ID).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete guest cart during merge", err, map[string]interface{}{
			"guest_id": guestID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit cart merge", err, map[string]interface{}{
			"user_id":  userID,
			"guest_id": guestID,
		})
		return nil, err
	}

	logger.Info("Guest cart merged successfully", map[string]interface{}{
		"user_id":      userID,
		"guest_id":     guestID,
		"merged_lines": len(guestCart.Lines),
	})

	return s.GetCart(CartIdentity{UserID: &userID})
}

func (s *cartService) findCart(identity CartIdentity) (*model.Cart, error) {
	if identity.UserID != nil {
		return s.cartRepo.FindByUserID(*identity.UserID)
	}
	return s.cartRepo.FindByGuestID(identity.GuestID)
}

func (s *cartService) getOrCreateCart(identity CartIdentity) (*model.Cart, error) {
	cart, err := s.findCart(identity)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = &model.Cart{UserID: identity.UserID, GuestID: identity.GuestID}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) emptyCart(identity CartIdentity) *model.Cart {
	return &model.Cart{
		UserID:  identity.UserID,
		GuestID: identity.GuestID,
		Lines:   []model.CartLine{},
	}
}
