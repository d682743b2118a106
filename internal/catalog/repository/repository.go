package repository

import (
	"context"
	"errors"

	"github.com/mariwi1503/mini-market-pondok/internal/catalog/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// CatalogRepository defines the read-only catalog operations the rest of
// the system depends on. Consumers define this interface, not the
// sqlite implementation.
type CatalogRepository interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
	GetProductsByCategory(ctx context.Context, categoryID string) ([]*domain.Product, error)
	GetPromoProducts(ctx context.Context) ([]*domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]*domain.Product, error)
	GetAllCategories(ctx context.Context) ([]*domain.Category, error)
	Close() error
}
