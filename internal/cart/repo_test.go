package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  added_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	require.NoError(t, db.Exec(cartItems).Error)

	return db
}

func TestAddOrIncrementCreatesThenBumps(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	first, err := repo.AddOrIncrement(ctx, userID, productID, decimal.RequireFromString("9.99"))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)
	assert.True(t, first.ProductPrice.Equal(decimal.RequireFromString("9.99")))

	second, err := repo.AddOrIncrement(ctx, userID, productID, decimal.RequireFromString("11.49"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)
	assert.True(t, second.ProductPrice.Equal(decimal.RequireFromString("11.49")))
}

func TestAddOrIncrementKeepsUsersSeparate(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	_, err := repo.AddOrIncrement(ctx, alice, productID, decimal.RequireFromString("5.00"))
	require.NoError(t, err)
	bobItem, err := repo.AddOrIncrement(ctx, bob, productID, decimal.RequireFromString("5.00"))
	require.NoError(t, err)

	assert.Equal(t, 1, bobItem.Quantity)
}

func TestListByUserPaginatesWindow(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	for i := 0; i < 7; i++ {
		_, err := repo.AddOrIncrement(ctx, userID, uuid.New(), decimal.RequireFromString("1.00"))
		require.NoError(t, err)
	}

	firstPage, count, err := repo.ListByUser(ctx, userID, 0, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 7, count)
	assert.Len(t, firstPage, 5)

	secondPage, count, err := repo.ListByUser(ctx, userID, 5, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 7, count)
	assert.Len(t, secondPage, 2)
}

func TestFindByIDAndUserScopesOwner(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	item, err := repo.AddOrIncrement(ctx, owner, uuid.New(), decimal.RequireFromString("3.00"))
	require.NoError(t, err)

	_, err = repo.FindByIDAndUser(ctx, item.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindByIDAndUser(ctx, item.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
}

func TestDeleteByIDAndUser(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	item, err := repo.AddOrIncrement(ctx, owner, uuid.New(), decimal.RequireFromString("3.00"))
	require.NoError(t, err)

	deleted, err := repo.DeleteByIDAndUser(ctx, item.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted, "foreign user must not delete the row")

	deleted, err = repo.DeleteByIDAndUser(ctx, item.ID, owner)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteByIDAndUser(ctx, item.ID, owner)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTotalsByUserAndClear(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	_, err := repo.AddOrIncrement(ctx, userID, productID, decimal.RequireFromString("9.99"))
	require.NoError(t, err)
	_, err = repo.AddOrIncrement(ctx, userID, productID, decimal.RequireFromString("9.99"))
	require.NoError(t, err)
	_, err = repo.AddOrIncrement(ctx, userID, uuid.New(), decimal.RequireFromString("4.50"))
	require.NoError(t, err)

	totals, err := repo.TotalsByUser(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, totals.ItemCount)
	assert.True(t, totals.CartTotal.Equal(decimal.RequireFromString("24.48")),
		"expected 24.48, got %s", totals.CartTotal)

	require.NoError(t, repo.ClearByUser(ctx, userID))

	totals, err = repo.TotalsByUser(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, totals.ItemCount)
	assert.True(t, totals.CartTotal.IsZero())
}
