package repository

import (
	"context"
	"errors"

	"github.com/mariwi1503/mini-market-pondok/internal/order/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type Credentials struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RemoteStore is the shop's durable order book. It lives on the other
// side of a network and may be unavailable; callers must catch failures
// and degrade, never surface them past the checkout boundary.
type RemoteStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) (string, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	Close() error
}

// HistoryStore is the always-available local order history backing the
// order-history view. It is the canonical source for that view whether
// or not the remote write succeeded.
type HistoryStore interface {
	Append(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	Close() error
}
