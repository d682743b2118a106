package payment

import (
	"context"
	"errors"
)

var (
	ErrInvalidAmount  = errors.New("payment amount must be positive")
	ErrIntentNotFound = errors.New("payment intent not found")
)

// Intent is an opaque confirmation handle. The checkout never inspects
// anything beyond the ID and the client secret it hands to the paying
// client.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type ConfirmResult struct {
	Captured bool   `json:"captured"`
	Reason   string `json:"reason,omitempty"` // set when not captured
}

// Gateway is the payment collaborator the checkout depends on. The
// confirmation round trip is driven by a client the core does not
// control; Confirm only reports the final captured/failed signal.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
	Confirm(ctx context.Context, intentID string) (*ConfirmResult, error)
}
