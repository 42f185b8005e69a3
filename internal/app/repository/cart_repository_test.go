package repository

import (
	"testing"

	"github.com/aryankm/modacart-backend/internal/app/model"
	"github.com/aryankm/modacart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewCartRepository(testDB)

	// Create test user
	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	// Create test product
	product := &model.Product{
		Name:   "Test Tee",
		Price:  24.99,
		Sizes:  "S,M,L",
		Colors: "Black,White",
	}
	testDB.Create(product)

	return testDB, repo, user, product
}

func TestCartRepository_Create(t *testing.T) {
	testDB, repo, user, _ := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: &user.ID}

	err := repo.Create(cart)
	assert.NoError(t, err)
	assert.NotZero(t, cart.ID)
}

func TestCartRepository_FindByUserID(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: &user.ID}
	require.NoError(t, repo.Create(cart))

	repo.CreateLine(&model.CartLine{
		CartID: cart.ID, ProductID: product.ID,
		Name: product.Name, Price: product.Price,
		Size: "M", Color: "Black", Quantity: 2,
	})

	found, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, found.ID)
	assert.Len(t, found.Lines, 1)
	assert.Equal(t, 2, found.Lines[0].Quantity)
}

func TestCartRepository_FindByUserID_NotFound(t *testing.T) {
	testDB, repo, _, _ := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := repo.FindByUserID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_FindByGuestID(t *testing.T) {
	testDB, repo, _, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{GuestID: "guest_abc123"}
	require.NoError(t, repo.Create(cart))

	repo.CreateLine(&model.CartLine{
		CartID: cart.ID, ProductID: product.ID,
		Name: product.Name, Price: product.Price,
		Size: "S", Color: "White", Quantity: 1,
	})

	found, err := repo.FindByGuestID("guest_abc123")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, found.ID)
	assert.Len(t, found.Lines, 1)
}

func TestCartRepository_FindLine(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: &user.ID}
	require.NoError(t, repo.Create(cart))

	line := &model.CartLine{
		CartID: cart.ID, ProductID: product.ID,
		Name: product.Name, Price: product.Price,
		Size: "M", Color: "Black", Quantity: 3,
	}
	require.NoError(t, repo.CreateLine(line))

	found, err := repo.FindLine(cart.ID, product.ID, "M", "Black")
	require.NoError(t, err)
	assert.Equal(t, line.ID, found.ID)
	assert.Equal(t, 3, found.Quantity)

	// Different color is a different line key
	_, err = repo.FindLine(cart.ID, product.ID, "M", "White")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_UpdateLine(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: &user.ID}
	require.NoError(t, repo.Create(cart))

	line := &model.CartLine{
		CartID: cart.ID, ProductID: product.ID,
		Name: product.Name, Price: product.Price,
		Size: "L", Color: "Black", Quantity: 1,
	}
	require.NoError(t, repo.CreateLine(line))

	line.Quantity = 5
	err := repo.UpdateLine(line)
	assert.NoError(t, err)

	updated, _ := repo.FindLineByID(cart.ID, line.ID)
	assert.Equal(t, 5, updated.Quantity)
}

func TestCartRepository_DeleteLine(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: &user.ID}
	require.NoError(t, repo.Create(cart))

	line := &model.CartLine{
		CartID: cart.ID, ProductID: product.ID,
		Name: product.Name, Price: product.Price,
		Size: "M", Color: "Black", Quantity: 1,
	}
	require.NoError(t, repo.CreateLine(line))

	err := repo.DeleteLine(line.ID)
	assert.NoError(t, err)

	_, err = repo.FindLineByID(cart.ID, line.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_ClearLines(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: &user.ID}
	require.NoError(t, repo.Create(cart))

	repo.CreateLine(&model.CartLine{
		CartID: cart.ID, ProductID: product.ID,
		Name: product.Name, Price: product.Price,
		Size: "S", Color: "Black", Quantity: 1,
	})
	repo.CreateLine(&model.CartLine{
		CartID: cart.ID, ProductID: product.ID,
		Name: product.Name, Price: product.Price,
		Size: "M", Color: "White", Quantity: 2,
	})

	err := repo.ClearLines(cart.ID)
	assert.NoError(t, err)

	found, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, found.Lines, 0)
}

func TestCartRepository_Delete(t *testing.T) {
	testDB, repo, _, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{GuestID: "guest_gone"}
	require.NoError(t, repo.Create(cart))

	repo.CreateLine(&model.CartLine{
		CartID: cart.ID, ProductID: product.ID,
		Name: product.Name, Price: product.Price,
		Size: "M", Color: "Black", Quantity: 1,
	})

	err := repo.Delete(cart.ID)
	assert.NoError(t, err)

	_, err = repo.FindByGuestID("guest_gone")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
