package service

import (
	"testing"
	"time"

	"github.com/aryankm/modacart-backend/internal/app/repository"
	"github.com/aryankm/modacart-backend/internal/db"
	"github.com/aryankm/modacart-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-key"

func setupAuthServiceTest(t *testing.T) (*gorm.DB, AuthService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	svc := NewAuthService(userRepo, testJWTSecret, 15*time.Minute, 7*24*time.Hour)

	return testDB, svc
}

func TestAuthService_Register(t *testing.T) {
	testDB, svc := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, tokens, err := svc.Register("new@example.com", "password123", "New User", "+1 555 0100")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	testDB, svc := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := svc.Register("dup@example.com", "password123", "First", "")
	require.NoError(t, err)

	_, _, err = svc.Register("dup@example.com", "different456", "Second", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	testDB, svc := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	registered, _, err := svc.Register("login@example.com", "password123", "Login User", "")
	require.NoError(t, err)

	user, tokens, err := svc.Login("login@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	testDB, svc := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := svc.Register("cred@example.com", "password123", "Cred User", "")
	require.NoError(t, err)

	_, _, err = svc.Login("cred@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_GetUserByID(t *testing.T) {
	testDB, svc := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	registered, _, err := svc.Register("byid@example.com", "password123", "By ID", "")
	require.NoError(t, err)

	user, err := svc.GetUserByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "byid@example.com", user.Email)

	_, err = svc.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	testDB, svc := setupAuthServiceTest(t)
	defer db.CleanupTestDB(testDB)

	registered, _, err := svc.Register("profile@example.com", "password123", "Before", "")
	require.NoError(t, err)

	user, err := svc.UpdateProfile(registered.ID, "After", "+1 555 0199")
	require.NoError(t, err)
	assert.Equal(t, "After", user.Name)
	assert.Equal(t, "+1 555 0199", user.Phone)
}
