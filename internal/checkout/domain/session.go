package domain

import (
	"time"

	orderdomain "github.com/mariwi1503/mini-market-pondok/internal/order/domain"
	"github.com/mariwi1503/mini-market-pondok/internal/payment"
)

// Session is one user's in-flight checkout. It is owned by the active
// client session: the cart is not mutated while the session sits in the
// payment phase, by convention rather than locking.
type Session struct {
	UserID string                    `json:"user_id"`
	State  State                     `json:"state"`
	Amount int64                     `json:"amount"` // cart total, fixed when entering the payment phase
	Method orderdomain.PaymentMethod `json:"method,omitempty"`

	Shipping ShippingInfo    `json:"shipping"`
	Intent   *payment.Intent `json:"intent,omitempty"`
	Captured bool            `json:"captured"`

	// Items is the order-line snapshot frozen when the session enters
	// the payment phase. Completion builds the order from this copy, so
	// once a payment is captured it never depends on the cart store or
	// catalog again.
	Items []orderdomain.OrderItem `json:"items"`

	// IntentErr carries the last intent-creation failure for the inline
	// retry affordance; empty once an intent exists.
	IntentErr string `json:"intent_err,omitempty"`

	// OrderID is the display reference shown on the completion screen.
	OrderID string `json:"order_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
