package repository

import (
	"context"
	"errors"

	"github.com/mariwi1503/mini-market-pondok/internal/session/domain"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrTokenNotFound = errors.New("session token not found")
	ErrPhoneTaken    = errors.New("phone number already registered")
)

// Store holds accounts, their password hashes and the live session
// tokens. Hashes never leave the store except through GetCredentials.
type Store interface {
	CreateUser(ctx context.Context, user *domain.User, passwordHash string) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetCredentials(ctx context.Context, phone string) (*domain.User, string, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	SaveToken(ctx context.Context, token, userID string) error
	GetUserByToken(ctx context.Context, token string) (*domain.User, error)
	DeleteToken(ctx context.Context, token string) error

	Close() error
}
