package repository

import (
	"context"
	"errors"

	"github.com/mariwi1503/mini-market-pondok/internal/cart/domain"
)

var (
	ErrCartNotFound   = errors.New("cart not found")
	ErrSchemaMismatch = errors.New("stored cart has an unknown schema version")
)

// CartRepository defines the interface for cart persistence. Consumers
// define this interface, not the MongoDB implementation. Every mutation
// in the engine writes the full cart state through UpsertCart.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}
