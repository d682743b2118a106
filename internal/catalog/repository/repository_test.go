package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) *Repository {
	repo, err := NewRepository(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations())

	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Logf("failed to close repository: %s", err)
		}
	})

	return repo
}

func TestGetAllProducts_Seeded(t *testing.T) {
	repo := setupTestRepo(t)

	products, err := repo.GetAllProducts(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, products)
	assert.Equal(t, "p1", products[0].ID) // seed order preserved
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	product, err := repo.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, product)
}

func TestGetProductByHandle(t *testing.T) {
	repo := setupTestRepo(t)

	product, err := repo.GetProductByHandle(context.Background(), "indomie-goreng")
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, int64(3500), product.Price)
	require.NotNil(t, product.Discount)
	assert.Equal(t, int64(10), *product.Discount)
}

func TestGetProduct_NilDiscount(t *testing.T) {
	repo := setupTestRepo(t)

	product, err := repo.GetProduct(context.Background(), "p2")
	require.NoError(t, err)
	assert.Nil(t, product.Discount)
}

func TestSearchProducts_CaseInsensitive(t *testing.T) {
	repo := setupTestRepo(t)

	products, err := repo.SearchProducts(context.Background(), "INDOMIE")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "p2", products[1].ID)
}

func TestSearchProducts_MatchesCategory(t *testing.T) {
	repo := setupTestRepo(t)

	products, err := repo.SearchProducts(context.Background(), "minuman")
	require.NoError(t, err)
	assert.NotEmpty(t, products)
	for _, p := range products {
		assert.Equal(t, "minuman", p.CategoryID)
	}
}

func TestSearchProducts_NoMatches(t *testing.T) {
	repo := setupTestRepo(t)

	products, err := repo.SearchProducts(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGetProductsByCategory(t *testing.T) {
	repo := setupTestRepo(t)

	products, err := repo.GetProductsByCategory(context.Background(), "makanan")
	require.NoError(t, err)
	require.Len(t, products, 4)
}

func TestGetPromoProducts(t *testing.T) {
	repo := setupTestRepo(t)

	products, err := repo.GetPromoProducts(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, products)
	for _, p := range products {
		assert.True(t, p.IsPromo)
	}
}

func TestGetAllCategories(t *testing.T) {
	repo := setupTestRepo(t)

	categories, err := repo.GetAllCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 6)
	assert.Equal(t, "makanan", categories[0].ID)
}
