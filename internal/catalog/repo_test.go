package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopcore/shopcore-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  product_name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)

	return db
}

func mustCreateTestProduct(t *testing.T, repo *Repository, name string, price string) *models.Product {
	t.Helper()
	product, err := repo.Create(context.Background(), &models.Product{
		ID:          uuid.New(),
		ProductName: name,
		Price:       decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return product
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))

	created := mustCreateTestProduct(t, repo, "Gadget", "19.90")

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gadget", found.ProductName)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("19.90")))
}

func TestRepositoryUpdatePersistsChanges(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	ctx := context.Background()

	created := mustCreateTestProduct(t, repo, "Gadget", "19.90")
	created.ProductName = "Gadget Pro"
	created.Price = decimal.RequireFromString("24.90")

	_, err := repo.Update(ctx, created)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gadget Pro", found.ProductName)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("24.90")))
}

func TestRepositoryDeleteReportsMissingRow(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	ctx := context.Background()

	created := mustCreateTestProduct(t, repo, "Gadget", "19.90")

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListIncludesAllRows(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))

	first := mustCreateTestProduct(t, repo, "First", "1.00")
	second := mustCreateTestProduct(t, repo, "Second", "2.00")

	listed, err := repo.List(context.Background())
	require.NoError(t, err)

	ids := make(map[uuid.UUID]bool, len(listed))
	for _, p := range listed {
		ids[p.ID] = true
	}
	assert.True(t, ids[first.ID])
	assert.True(t, ids[second.ID])
}
