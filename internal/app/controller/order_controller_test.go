package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aryankm/modacart-backend/internal/app/model"
	"github.com/aryankm/modacart-backend/internal/app/repository"
	"github.com/aryankm/modacart-backend/internal/app/service"
	"github.com/aryankm/modacart-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderControllerTest(t *testing.T) (*OrderController, *gin.Engine, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	orderService := service.NewOrderService(orderRepo)
	orderController := NewOrderController(orderService)

	user := &model.User{
		Email:        "orders@example.com",
		PasswordHash: "hash",
		Name:         "Order User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return orderController, router, testDB, user
}

func seedControllerOrder(t *testing.T, testDB *gorm.DB, userID, sessionID uint) *model.Order {
	t.Helper()
	paidAt := time.Now()
	order := &model.Order{
		UserID:     userID,
		SessionID:  sessionID,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Address:    "12 Analytical Lane",
		City:       "London",
		PostalCode: "SW1A 1AA",
		Country:    "UK",
		Phone:      "+44 20 7946 0999",
		TotalPrice: 89.98,
		Status:     model.OrderStatusProcessing,
		IsPaid:     true,
		PaidAt:     &paidAt,
		PaymentRef: "pay_seed123",
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}

func TestOrderController_GetOrders(t *testing.T) {
	controller, router, testDB, user := setupOrderControllerTest(t)

	seedControllerOrder(t, testDB, user.ID, 1)
	seedControllerOrder(t, testDB, user.ID, 2)

	router.GET("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrders(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Orders []model.Order `json:"orders"`
		Count  int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
	assert.Len(t, response.Orders, 2)
}

func TestOrderController_GetOrders_Empty(t *testing.T) {
	controller, router, _, user := setupOrderControllerTest(t)

	router.GET("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrders(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 0, response.Count)
}

func TestOrderController_GetOrder(t *testing.T) {
	controller, router, testDB, user := setupOrderControllerTest(t)

	order := seedControllerOrder(t, testDB, user.ID, 1)

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrder(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/"+itoa(order.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Order model.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, order.ID, response.Order.ID)
	assert.Equal(t, "pay_seed123", response.Order.PaymentRef)
}

func TestOrderController_GetOrder_NotFound(t *testing.T) {
	controller, router, _, user := setupOrderControllerTest(t)

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrder(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ORDER_NOT_FOUND")
}

func TestOrderController_GetOrder_OtherUser(t *testing.T) {
	controller, router, testDB, user := setupOrderControllerTest(t)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other User",
		Role:         model.RoleUser,
	}
	testDB.Create(other)
	order := seedControllerOrder(t, testDB, other.ID, 1)

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrder(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/"+itoa(order.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderController_GetOrder_InvalidID(t *testing.T) {
	controller, router, _, user := setupOrderControllerTest(t)

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrder(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/not-a-number", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
