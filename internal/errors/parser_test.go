package errors

import (
	goerrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError_RecordNotFound(t *testing.T) {
	info := ParseError(gorm.ErrRecordNotFound, "checkout session")
	assert.Equal(t, ResourceNotFound, info.Code)
	assert.Equal(t, "Checkout session not found", info.Message)

	info = ParseError(gorm.ErrRecordNotFound, "product lookup")
	assert.Equal(t, "Product not found", info.Message)
}

func TestParseError_DuplicateKey(t *testing.T) {
	err := goerrors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`)
	info := ParseError(err, "create user")
	assert.Equal(t, AuthEmailAlreadyExists, info.Code)

	err = goerrors.New(`ERROR: duplicate key value violates unique constraint "idx_orders_session_id" (SQLSTATE 23505)`)
	info = ParseError(err, "finalize order")
	assert.Equal(t, ResourceAlreadyExists, info.Code)
	assert.Equal(t, "An order already exists for this checkout", info.Message)

	err = goerrors.New(`ERROR: duplicate key value violates unique constraint "idx_cart_line_key" (SQLSTATE 23505)`)
	info = ParseError(err, "create cart line")
	assert.Equal(t, ResourceConflict, info.Code)
}

func TestParseError_ForeignKey(t *testing.T) {
	err := goerrors.New(`ERROR: insert or update on table "cart_lines" violates foreign key constraint "fk_products" (SQLSTATE 23503)`)
	info := ParseError(err, "create cart line")
	assert.Equal(t, ProductNotFound, info.Code)
}

func TestParseError_NotNull(t *testing.T) {
	err := goerrors.New(`ERROR: null value in column "email" violates not-null constraint (SQLSTATE 23502)`)
	info := ParseError(err, "create user")
	assert.Equal(t, ValidationRequired, info.Code)
	assert.Equal(t, "Email is required", info.Message)
}

func TestParseError_ExternalService(t *testing.T) {
	err := goerrors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	info := ParseError(err, "payment")
	assert.Equal(t, InternalExternalAPI, info.Code)
}

func TestParseError_Unclassified(t *testing.T) {
	info := ParseError(goerrors.New("something odd"), "payment")
	assert.Equal(t, InternalServerError, info.Code)
	assert.Equal(t, "Something went wrong while processing the payment. Please try again later", info.Message)
}

func TestRespondFromError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		context    string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "record not found",
			err:        gorm.ErrRecordNotFound,
			context:    "order",
			wantStatus: http.StatusNotFound,
			wantCode:   ResourceNotFound,
		},
		{
			name:       "duplicate email",
			err:        goerrors.New(`duplicate key value violates unique constraint "idx_users_email"`),
			context:    "create user",
			wantStatus: http.StatusConflict,
			wantCode:   AuthEmailAlreadyExists,
		},
		{
			name:       "gateway unreachable",
			err:        goerrors.New("connection refused"),
			context:    "payment",
			wantStatus: http.StatusBadGateway,
			wantCode:   InternalExternalAPI,
		},
		{
			name:       "unclassified",
			err:        goerrors.New("something odd"),
			context:    "update cart",
			wantStatus: http.StatusInternalServerError,
			wantCode:   InternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondFromError(c, tc.err, tc.context)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantCode)
		})
	}
}
