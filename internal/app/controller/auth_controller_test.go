package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aryankm/modacart-backend/internal/app/model"
	"github.com/aryankm/modacart-backend/internal/app/repository"
	"github.com/aryankm/modacart-backend/internal/app/service"
	"github.com/aryankm/modacart-backend/internal/db"
	"github.com/aryankm/modacart-backend/internal/middleware"
	"github.com/aryankm/modacart-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthControllerTest(t *testing.T) (*AuthController, service.CartService, *gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)

	authService := service.NewAuthService(userRepo, "test-secret-key", 15*time.Minute, 7*24*time.Hour)
	cartService := service.NewCartService(cartRepo, productRepo, testDB)
	authController := NewAuthController(authService, cartService)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return authController, cartService, router, testDB
}

func registerTestUser(t *testing.T, router *gin.Engine, email string) {
	t.Helper()
	body, _ := json.Marshal(RegisterRequest{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestAuthController_Register(t *testing.T) {
	controller, _, router, _ := setupAuthControllerTest(t)

	router.POST("/register", controller.Register)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "new@example.com",
		Password: "password123",
		Name:     "New Shopper",
		Phone:    "+1 555 0101",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		User   model.User     `json:"user"`
		Tokens util.TokenPair `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "new@example.com", response.User.Email)
	assert.NotEmpty(t, response.Tokens.AccessToken)
	assert.NotEmpty(t, response.Tokens.RefreshToken)
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	controller, _, router, _ := setupAuthControllerTest(t)

	router.POST("/register", controller.Register)
	registerTestUser(t, router, "taken@example.com")

	body, _ := json.Marshal(RegisterRequest{
		Email:    "taken@example.com",
		Password: "password123",
		Name:     "Second User",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_EMAIL_EXISTS")
}

func TestAuthController_Register_ShortPassword(t *testing.T) {
	controller, _, router, _ := setupAuthControllerTest(t)

	router.POST("/register", controller.Register)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "short@example.com",
		Password: "short",
		Name:     "Short Password",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Login(t *testing.T) {
	controller, _, router, _ := setupAuthControllerTest(t)

	router.POST("/register", controller.Register)
	router.POST("/login", controller.Login)
	registerTestUser(t, router, "login@example.com")

	body, _ := json.Marshal(LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Tokens util.TokenPair `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Tokens.AccessToken)
}

func TestAuthController_Login_InvalidCredentials(t *testing.T) {
	controller, _, router, _ := setupAuthControllerTest(t)

	router.POST("/register", controller.Register)
	router.POST("/login", controller.Login)
	registerTestUser(t, router, "login@example.com")

	body, _ := json.Marshal(LoginRequest{
		Email:    "login@example.com",
		Password: "wrong-password",
	})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
}

func TestAuthController_Login_MergesGuestCart(t *testing.T) {
	controller, cartService, router, testDB := setupAuthControllerTest(t)

	product := &model.Product{
		Name:   "Classic Cotton Tee",
		Price:  24.99,
		Sizes:  "S,M,L",
		Colors: "Black,White",
	}
	testDB.Create(product)

	guestID := "guest_login-merge-test"
	_, err := cartService.AddLine(service.CartIdentity{GuestID: guestID}, product.ID, "M", "Black", 2)
	require.NoError(t, err)

	router.POST("/register", controller.Register)
	router.POST("/login", controller.Login)
	registerTestUser(t, router, "merger@example.com")

	body, _ := json.Marshal(LoginRequest{
		Email:    "merger@example.com",
		Password: "password123",
		GuestID:  guestID,
	})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	userCart, err := cartService.GetCart(service.CartIdentity{UserID: &response.User.ID})
	require.NoError(t, err)
	require.Len(t, userCart.Lines, 1)
	assert.Equal(t, 2, userCart.Lines[0].Quantity)

	var guestCart model.Cart
	err = testDB.Where("guest_id = ?", guestID).First(&guestCart).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuthController_Register_MergesGuestCart(t *testing.T) {
	controller, cartService, router, testDB := setupAuthControllerTest(t)

	product := &model.Product{
		Name:   "Classic Cotton Tee",
		Price:  24.99,
		Sizes:  "S,M,L",
		Colors: "Black,White",
	}
	testDB.Create(product)

	guestID := "guest_register-merge-test"
	_, err := cartService.AddLine(service.CartIdentity{GuestID: guestID}, product.ID, "L", "White", 1)
	require.NoError(t, err)

	router.POST("/register", controller.Register)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "signup-merger@example.com",
		Password: "password123",
		Name:     "Signup Merger",
		GuestID:  guestID,
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		User model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	userCart, err := cartService.GetCart(service.CartIdentity{UserID: &response.User.ID})
	require.NoError(t, err)
	require.Len(t, userCart.Lines, 1)
	assert.Equal(t, "L", userCart.Lines[0].Size)

	var guestCart model.Cart
	err = testDB.Where("guest_id = ?", guestID).First(&guestCart).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuthController_Register_GuestIDFromHeader(t *testing.T) {
	controller, cartService, router, testDB := setupAuthControllerTest(t)

	product := &model.Product{
		Name:   "Classic Cotton Tee",
		Price:  24.99,
		Sizes:  "S,M,L",
		Colors: "Black,White",
	}
	testDB.Create(product)

	guestID := "guest_register-header-test"
	_, err := cartService.AddLine(service.CartIdentity{GuestID: guestID}, product.ID, "S", "Black", 3)
	require.NoError(t, err)

	router.POST("/register", controller.Register)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "header-merger@example.com",
		Password: "password123",
		Name:     "Header Merger",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.GuestIDHeader, guestID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		User model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	userCart, err := cartService.GetCart(service.CartIdentity{UserID: &response.User.ID})
	require.NoError(t, err)
	require.Len(t, userCart.Lines, 1)
	assert.Equal(t, 3, userCart.Lines[0].Quantity)
}

func TestAuthController_GetProfile(t *testing.T) {
	controller, _, router, testDB := setupAuthControllerTest(t)

	user := &model.User{
		Email:        "profile@example.com",
		PasswordHash: "hash",
		Name:         "Profile User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	router.GET("/profile", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetProfile(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "profile@example.com")
}

func TestAuthController_GetProfile_Unauthenticated(t *testing.T) {
	controller, _, router, _ := setupAuthControllerTest(t)

	router.GET("/profile", controller.GetProfile)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_UpdateProfile(t *testing.T) {
	controller, _, router, testDB := setupAuthControllerTest(t)

	user := &model.User{
		Email:        "update@example.com",
		PasswordHash: "hash",
		Name:         "Old Name",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	router.PUT("/profile", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateProfile(c)
	})

	body, _ := json.Marshal(UpdateProfileRequest{
		Name:  "New Name",
		Phone: "+1 555 0102",
	})
	req := httptest.NewRequest(http.MethodPut, "/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated model.User
	require.NoError(t, testDB.First(&updated, user.ID).Error)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "+1 555 0102", updated.Phone)
}

func TestAuthController_Login_GuestIDFromHeader(t *testing.T) {
	controller, cartService, router, testDB := setupAuthControllerTest(t)

	product := &model.Product{
		Name:   "Slim Fit Denim Jeans",
		Price:  59.99,
		Sizes:  "30,32,34",
		Colors: "Indigo",
	}
	testDB.Create(product)

	guestID := "guest_header-merge-test"
	_, err := cartService.AddLine(service.CartIdentity{GuestID: guestID}, product.ID, "32", "Indigo", 1)
	require.NoError(t, err)

	router.POST("/register", controller.Register)
	router.POST("/login", controller.Login)
	registerTestUser(t, router, "header@example.com")

	body, _ := json.Marshal(LoginRequest{
		Email:    "header@example.com",
		Password: "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.GuestIDHeader, guestID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	userCart, err := cartService.GetCart(service.CartIdentity{UserID: &response.User.ID})
	require.NoError(t, err)
	assert.Len(t, userCart.Lines, 1)
}
