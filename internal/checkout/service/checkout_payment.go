package service

import (
	"context"
	"time"

	d "github.com/mariwi1503/mini-market-pondok/internal/checkout/domain"
	orderdomain "github.com/mariwi1503/mini-market-pondok/internal/order/domain"
)

// ConfirmCardPayment consumes the gateway's final captured/failed
// signal for the session's intent. The confirmation round trip itself
// runs in a client the core does not control.
//
// On capture the session moves through ProcessingOrder to Completed.
// On refusal the session stays in the payment phase and the refusal
// reason is returned for inline display; the user may retry.
func (s *CheckoutService) ConfirmCardPayment(ctx context.Context, userID string) (*d.Session, error) {
	sess, err := s.Current(userID)
	if err != nil {
		return nil, err
	}

	if !d.CanTransitionTo(sess.State, d.StateProcessingOrder) || sess.Method != orderdomain.PaymentMethodCard {
		return nil, ErrIllegalTransition
	}
	if sess.Intent == nil {
		return nil, ErrNoPaymentIntent
	}

	result, err := s.gateway.Confirm(ctx, sess.Intent.ID)
	if err != nil {
		// gateway unreachable, stay in the payment phase
		return nil, err
	}

	if !result.Captured {
		return nil, &PaymentDeclinedError{Reason: result.Reason}
	}

	sess.Captured = true
	sess.State = d.StateProcessingOrder
	s.touch(sess)

	if err := s.complete(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// ConfirmCashOnDelivery places the order without any gateway round
// trip. A fixed processing delay gives the user feedback before the
// success state.
func (s *CheckoutService) ConfirmCashOnDelivery(ctx context.Context, userID string) (*d.Session, error) {
	sess, err := s.Current(userID)
	if err != nil {
		return nil, err
	}

	if !d.CanTransitionTo(sess.State, d.StateProcessingOrder) {
		return nil, ErrIllegalTransition
	}

	sess.Method = orderdomain.PaymentMethodCOD

	if s.codDelay > 0 {
		select {
		case <-time.After(s.codDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	sess.State = d.StateProcessingOrder
	s.touch(sess)

	if err := s.complete(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}
