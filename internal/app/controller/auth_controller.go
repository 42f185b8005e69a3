package controller

import (
	goerrors "errors"
	"net/http"

	"github.com/aryankm/modacart-backend/internal/app/service"
	"github.com/aryankm/modacart-backend/internal/errors"
	"github.com/aryankm/modacart-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
	cartService service.CartService
}

func NewAuthController(authService service.AuthService, cartService service.CartService) *AuthController {
	return &AuthController{
		authService: authService,
		cartService: cartService,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	// Guest ID of the pre-signup cart; when present the guest cart is
	// merged into the new account's cart, same as on login
	GuestID string `json:"guest_id"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	// Guest ID of the pre-login cart; when present the guest cart is
	// merged into the user's cart on successful login
	GuestID string `json:"guest_id"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Register creates a new account
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	user, tokens, err := ctrl.authService.Register(req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		if goerrors.Is(err, service.ErrEmailAlreadyExists) {
			log.Warn("Registration with existing email", map[string]interface{}{
				"email": req.Email,
			})
			errors.Conflict(c, errors.AuthEmailAlreadyExists, "This email address is already registered")
			return
		}
		log.Error("Failed to register user", err, map[string]interface{}{
			"email": req.Email,
		})
		// A concurrent signup with the same email slips past the
		// service's existence check and surfaces here as a unique
		// constraint violation
		errors.RespondFromError(c, err, "create user")
		return
	}

	guestID := req.GuestID
	if guestID == "" {
		guestID = middleware.GetGuestID(c)
	}
	if guestID != "" {
		// A failed merge should not block the signup; the client can
		// retry via POST /cart/merge
		if _, err := ctrl.cartService.MergeGuestCart(user.ID, guestID); err != nil {
			log.Error("Failed to merge guest cart on registration", err, map[string]interface{}{
				"user_id":  user.ID,
				"guest_id": guestID,
			})
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login authenticates a user. When the request names a guest cart, that cart
// is merged into the user's cart as part of the login.
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if goerrors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login with invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthInvalidCredentials, "Invalid email or password")
			return
		}
		log.Error("Failed to log in user", err, map[string]interface{}{
			"email": req.Email,
		})
		errors.InternalError(c, "Login failed. Please try again later")
		return
	}

	guestID := req.GuestID
	if guestID == "" {
		guestID = middleware.GetGuestID(c)
	}
	if guestID != "" {
		// A failed merge should not block the login; the client can
		// retry via POST /cart/merge
		if _, err := ctrl.cartService.MergeGuestCart(user.ID, guestID); err != nil {
			log.Error("Failed to merge guest cart on login", err, map[string]interface{}{
				"user_id":  user.ID,
				"guest_id": guestID,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Logout revokes the current access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	token, ok := middleware.GetAccessToken(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
		log.Error("Failed to log out user", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "Logout failed. Please try again")
		return
	}

	log.Info("User logged out", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetProfile returns the authenticated user's profile
// GET /api/v1/auth/profile
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if goerrors.Is(err, service.ErrUserNotFound) {
			errors.NotFound(c, errors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to fetch profile", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdateProfile updates name and phone
// PUT /api/v1/auth/profile
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid profile update request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Name, req.Phone)
	if err != nil {
		if goerrors.Is(err, service.ErrUserNotFound) {
			errors.NotFound(c, errors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
