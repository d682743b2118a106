package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition    = errors.New("illegal transition of checkout state")
	ErrNoActiveCheckout     = errors.New("no active checkout session")
	ErrNoPaymentIntent      = errors.New("no payment intent to confirm")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// PaymentDeclinedError is returned when the gateway resolves a
// confirmation as failed. The session stays in the payment phase so the
// user can retry or fall back to cash on delivery.
type PaymentDeclinedError struct {
	Reason string
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}
