package service

import (
	"context"
	"log"
	"strconv"

	d "github.com/mariwi1503/mini-market-pondok/internal/checkout/domain"
	orderdomain "github.com/mariwi1503/mini-market-pondok/internal/order/domain"
)

// Currency follows the shop: whole Indonesian rupiah, no subunit.
const currency = "idr"

// SubmitShipping validates the shipping info and moves the session into
// the payment phase. The payable amount and the order-line snapshot are
// fixed exactly once here; the cart must not be mutated during the
// payment phase, and completion works from the snapshot alone.
//
// For card payments a payment intent is requested synchronously. An
// intent-creation failure does NOT roll the transition back: the
// session stays in the payment phase with the failure recorded inline,
// so the user can retry or switch to cash on delivery instead of
// hitting a dead end.
func (s *CheckoutService) SubmitShipping(ctx context.Context, userID string, info d.ShippingInfo, method orderdomain.PaymentMethod) (*d.Session, error) {
	sess, err := s.Current(userID)
	if err != nil {
		return nil, err
	}

	if !d.CanTransitionTo(sess.State, d.StateAwaitingPayment) {
		return nil, ErrIllegalTransition
	}

	if err := info.Validate(); err != nil {
		return nil, err
	}

	if method != orderdomain.PaymentMethodCard && method != orderdomain.PaymentMethodCOD {
		return nil, ErrUnknownPaymentMethod
	}

	totals, err := s.cart.Totals(ctx, userID)
	if err != nil {
		return nil, err
	}
	if totals.LineCount == 0 {
		return nil, ErrEmptyCart
	}

	items, err := s.freezeLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	sess.Shipping = info
	sess.Method = method
	sess.Amount = totals.Total
	sess.Items = items
	sess.State = d.StateAwaitingPayment
	s.touch(sess)

	if method == orderdomain.PaymentMethodCard {
		s.createIntent(ctx, sess, totals.LineCount)
	}

	return sess, nil
}

// RetryIntent re-issues the intent-creation call after a failure. The
// old handle, if any, is discarded; the gateway may hand out a new one.
func (s *CheckoutService) RetryIntent(ctx context.Context, userID string) (*d.Session, error) {
	sess, err := s.Current(userID)
	if err != nil {
		return nil, err
	}

	if sess.State != d.StateAwaitingPayment || sess.Method != orderdomain.PaymentMethodCard {
		return nil, ErrIllegalTransition
	}

	totals, err := s.cart.Totals(ctx, userID)
	if err != nil {
		return nil, err
	}

	sess.Intent = nil
	s.createIntent(ctx, sess, totals.LineCount)
	s.touch(sess)

	return sess, nil
}

// SelectMethod switches the payment method while in the payment phase.
// Switching to card requests an intent if none exists; switching to
// cash on delivery simply abandons any in-flight intent, no explicit
// cancellation call is made.
func (s *CheckoutService) SelectMethod(ctx context.Context, userID string, method orderdomain.PaymentMethod) (*d.Session, error) {
	sess, err := s.Current(userID)
	if err != nil {
		return nil, err
	}

	if sess.State != d.StateAwaitingPayment {
		return nil, ErrIllegalTransition
	}

	if method != orderdomain.PaymentMethodCard && method != orderdomain.PaymentMethodCOD {
		return nil, ErrUnknownPaymentMethod
	}

	sess.Method = method
	if method == orderdomain.PaymentMethodCard && sess.Intent == nil {
		totals, err := s.cart.Totals(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.createIntent(ctx, sess, totals.LineCount)
	}
	s.touch(sess)

	return sess, nil
}

func (s *CheckoutService) createIntent(ctx context.Context, sess *d.Session, itemCount int) {
	intent, err := s.gateway.CreateIntent(ctx, sess.Amount, currency, map[string]string{
		"customer_name":  sess.Shipping.Name,
		"customer_phone": sess.Shipping.Phone,
		"item_count":     strconv.Itoa(itemCount),
	})
	if err != nil {
		log.Printf("payment intent creation failed for user %s: %v", sess.UserID, err)
		sess.Intent = nil
		sess.IntentErr = "failed to initialize payment"
		return
	}

	sess.Intent = intent
	sess.IntentErr = ""
}
