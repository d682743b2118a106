package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mariwi1503/mini-market-pondok/internal/session/domain"
	"github.com/mariwi1503/mini-market-pondok/internal/session/repository"
)

var (
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrMissingCredentials = errors.New("name, phone and password are required")
	ErrInvalidCredentials = errors.New("invalid phone number or password")
)

const minPasswordLen = 6

type SessionService struct {
	store repository.Store
}

func NewSessionService(store repository.Store) *SessionService {
	return &SessionService{store: store}
}

// Register creates an account keyed by phone number. The phone is the
// login identity, so duplicates are rejected with a typed error the
// surface can show inline.
func (s *SessionService) Register(ctx context.Context, name, phone, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user, string(hash)); err != nil {
		if errors.Is(err, repository.ErrPhoneTaken) {
			return nil, ErrPhoneTaken
		}
		return nil, err
	}

	return user, nil
}

// Login resolves phone+password to a fresh session token. Unknown phone
// and wrong password collapse into the same error so the surface leaks
// nothing about which half was wrong.
func (s *SessionService) Login(ctx context.Context, phone, password string) (string, *domain.User, error) {
	user, hash, err := s.store.GetCredentials(ctx, strings.TrimSpace(phone))
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := uuid.New().String()
	if err := s.store.SaveToken(ctx, token, user.ID); err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *SessionService) Logout(ctx context.Context, token string) error {
	return s.store.DeleteToken(ctx, token)
}

// GetByToken resolves a bearer token to its user. The auth middleware
// is the only production caller.
func (s *SessionService) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	return s.store.GetUserByToken(ctx, token)
}

// UpdateProfile changes the mutable profile fields. Phone is the login
// identity and cannot be changed here.
func (s *SessionService) UpdateProfile(ctx context.Context, userID, name, email, address string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	user.Email = strings.TrimSpace(email)
	user.Address = strings.TrimSpace(address)

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
