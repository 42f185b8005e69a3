package controller

import (
	goerrors "errors"
	"net/http"
	"strconv"

	"github.com/aryankm/modacart-backend/internal/app/model"
	"github.com/aryankm/modacart-backend/internal/app/service"
	"github.com/aryankm/modacart-backend/internal/errors"
	"github.com/aryankm/modacart-backend/internal/middleware"
	"github.com/aryankm/modacart-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartLineRequest struct {
	Quantity int `json:"quantity"`
}

type MergeCartRequest struct {
	GuestID string `json:"guest_id"`
}

// resolveIdentity picks the cart owner for this request: the authenticated
// user when a valid token is present, otherwise the guest ID from the
// request. issueIfMissing mints a fresh guest ID for first-time guests.
func (ctrl *CartController) resolveIdentity(c *gin.Context, issueIfMissing bool) (service.CartIdentity, bool) {
	if userID, ok := middleware.GetUserID(c); ok {
		return service.CartIdentity{UserID: &userID}, true
	}
	if guestID := middleware.GetGuestID(c); guestID != "" {
		return service.CartIdentity{GuestID: guestID}, true
	}
	if issueIfMissing {
		return service.CartIdentity{GuestID: util.NewGuestID()}, true
	}
	return service.CartIdentity{}, false
}

func cartResponse(identity service.CartIdentity, cart *model.Cart) gin.H {
	resp := gin.H{
		"cart":  cart,
		"count": len(cart.Lines),
		"total": cart.TotalPrice(),
	}
	if identity.UserID == nil {
		resp["guest_id"] = identity.GuestID
	}
	return resp
}

// GetCart returns the requester's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, _ := ctrl.resolveIdentity(c, true)

	cart, err := ctrl.cartService.GetCart(identity)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"guest_id": identity.GuestID,
		})
		errors.RespondFromError(c, err, "fetch cart")
		return
	}

	log.Info("Cart fetched successfully", map[string]interface{}{
		"count": len(cart.Lines),
		"total": cart.TotalPrice(),
	})

	c.JSON(http.StatusOK, cartResponse(identity, cart))
}

// AddToCart adds a line to the cart, merging quantities when the same
// product, size and color are already present
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, _ := ctrl.resolveIdentity(c, true)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	log.Debug("Adding line to cart", map[string]interface{}{
		"product_id": req.ProductID,
		"size":       req.Size,
		"color":      req.Color,
		"quantity":   req.Quantity,
	})

	cart, err := ctrl.cartService.AddLine(identity, req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		if goerrors.Is(err, service.ErrOptionRequired) {
			log.Warn("Add to cart missing size or color", map[string]interface{}{
				"product_id": req.ProductID,
			})
			errors.BadRequest(c, errors.CartOptionRequired, "Size and color must be selected")
			return
		}
		if goerrors.Is(err, service.ErrInvalidOption) {
			log.Warn("Add to cart with unoffered option", map[string]interface{}{
				"product_id": req.ProductID,
				"size":       req.Size,
				"color":      req.Color,
			})
			errors.BadRequest(c, errors.ProductInvalidOption, "The product is not available in this size or color")
			return
		}
		if goerrors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found for cart", map[string]interface{}{
				"product_id": req.ProductID,
			})
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to add line to cart", err, map[string]interface{}{
			"product_id": req.ProductID,
		})
		errors.RespondFromError(c, err, "create cart line")
		return
	}

	log.Info("Line added to cart successfully", map[string]interface{}{
		"product_id": req.ProductID,
		"count":      len(cart.Lines),
	})

	c.JSON(http.StatusCreated, cartResponse(identity, cart))
}

// UpdateCartLine sets the quantity of a cart line. Quantities below one are
// ignored and the current cart comes back unchanged.
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateCartLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, ok := ctrl.resolveIdentity(c, false)
	if !ok {
		log.Warn("Cart update without identity")
		errors.Unauthorized(c, "A user session or guest ID is required")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log.Warn("Invalid cart line ID format", map[string]interface{}{
			"cart_line_id": idStr,
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid cart line ID")
		return
	}

	var req UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"cart_line_id": id,
			"error":        err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := ctrl.cartService.UpdateLineQuantity(identity, uint(id), req.Quantity)
	if err != nil {
		if goerrors.Is(err, service.ErrCartLineNotFound) {
			log.Warn("Cart line not found for update", map[string]interface{}{
				"cart_line_id": id,
			})
			errors.NotFound(c, errors.CartLineNotFound, "Cart line not found")
			return
		}
		log.Error("Failed to update cart line", err, map[string]interface{}{
			"cart_line_id": id,
		})
		errors.RespondFromError(c, err, "update cart line")
		return
	}

	log.Info("Cart line updated successfully", map[string]interface{}{
		"cart_line_id": id,
		"quantity":     req.Quantity,
	})

	c.JSON(http.StatusOK, cartResponse(identity, cart))
}

// RemoveCartLine deletes a line from the cart. Deleting an absent line
// succeeds.
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveCartLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, ok := ctrl.resolveIdentity(c, false)
	if !ok {
		log.Warn("Cart removal without identity")
		errors.Unauthorized(c, "A user session or guest ID is required")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log.Warn("Invalid cart line ID format", map[string]interface{}{
			"cart_line_id": idStr,
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid cart line ID")
		return
	}

	cart, err := ctrl.cartService.RemoveLine(identity, uint(id))
	if err != nil {
		log.Error("Failed to remove cart line", err, map[string]interface{}{
			"cart_line_id": id,
		})
		errors.RespondFromError(c, err, "delete cart line")
		return
	}

	log.Info("Cart line removed successfully", map[string]interface{}{
		"cart_line_id": id,
	})

	c.JSON(http.StatusOK, cartResponse(identity, cart))
}

// ClearCart removes every line from the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	identity, ok := ctrl.resolveIdentity(c, false)
	if !ok {
		log.Warn("Cart clear without identity")
		errors.Unauthorized(c, "A user session or guest ID is required")
		return
	}

	if err := ctrl.cartService.ClearCart(identity); err != nil {
		log.Error("Failed to clear cart", err)
		errors.RespondFromError(c, err, "delete cart")
		return
	}

	log.Info("Cart cleared successfully")

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// MergeCart folds the guest cart named in the request into the
// authenticated user's cart. Retrying with the same guest ID is harmless.
// POST /api/v1/cart/merge
func (ctrl *CartController) MergeCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		log.Warn("Cart merge without authentication")
		errors.Unauthorized(c, "")
		return
	}

	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid merge cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	guestID := req.GuestID
	if guestID == "" {
		guestID = middleware.GetGuestID(c)
	}
	if guestID == "" {
		log.Warn("Cart merge without guest ID", map[string]interface{}{
			"user_id": userID,
		})
		errors.BadRequest(c, errors.ValidationRequired, "guest_id is required")
		return
	}

	cart, err := ctrl.cartService.MergeGuestCart(userID, guestID)
	if err != nil {
		log.Error("Failed to merge guest cart", err, map[string]interface{}{
			"user_id":  userID,
			"guest_id": guestID,
		})
		errors.RespondFromError(c, err, "update cart")
		return
	}

	log.Info("Guest cart merged successfully", map[string]interface{}{
		"user_id":  userID,
		"guest_id": guestID,
		"count":    len(cart.Lines),
	})

	c.JSON(http.StatusOK, gin.H{
		"cart":  cart,
		"count": len(cart.Lines),
		"total": cart.TotalPrice(),
	})
}
