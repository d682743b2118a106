package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	catalogrepo "github.com/mariwi1503/mini-market-pondok/internal/catalog/repository"
	d "github.com/mariwi1503/mini-market-pondok/internal/checkout/domain"
	orderdomain "github.com/mariwi1503/mini-market-pondok/internal/order/domain"
)

// complete turns the processing session into a finished order. Once the
// payment outcome is known nothing here may fail the checkout: the
// order is built from the session's frozen snapshot, the remote store
// is allowed to be down, and history, notification and cart clearing
// are best effort. A captured payment always ends in a success state.
func (s *CheckoutService) complete(ctx context.Context, sess *d.Session) error {
	if !d.CanTransitionTo(sess.State, d.StateCompleted) {
		return ErrIllegalTransition
	}

	order := s.orderFromSession(sess)

	storeID, storeErr := s.store.CreateOrder(ctx, order)
	switch {
	case storeErr == nil:
		order.ID = storeID
	case sess.Captured && sess.Intent != nil:
		// money moved, fall back to the gateway handle as the id
		log.Printf("order store unavailable, using payment reference for order id: %v", storeErr)
		order.ID = sess.Intent.ID
	default:
		log.Printf("order store unavailable, assigning local order id: %v", storeErr)
		order.ID = localOrderID()
	}

	if err := s.history.Append(ctx, order); err != nil {
		log.Printf("failed to append order %s to local history: %v", order.ID, err)
	}

	if sess.Method == orderdomain.PaymentMethodCard && s.notifier != nil {
		go func(o orderdomain.Order) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.notifier.PublishOrderConfirmation(ctx, &o); err != nil {
				log.Printf("failed to publish confirmation for order %s: %v", o.ID, err)
			}
		}(*order)
	}

	if err := s.cart.ClearCart(ctx, sess.UserID); err != nil {
		log.Printf("failed to clear cart for user %s after checkout: %v", sess.UserID, err)
	}

	sess.State = d.StateCompleted
	sess.OrderID = displayRef(order.ID)
	s.touch(sess)

	return nil
}

// orderFromSession assembles the order purely from state frozen at the
// shipping step. It cannot fail.
func (s *CheckoutService) orderFromSession(sess *d.Session) *orderdomain.Order {
	status := orderdomain.StatusPending
	var paymentRef string
	if sess.Captured {
		status = orderdomain.StatusPaid
		if sess.Intent != nil {
			paymentRef = sess.Intent.ID
		}
	}

	return &orderdomain.Order{
		UserID:   sess.UserID,
		Items:    sess.Items,
		Subtotal: sess.Amount,
		Shipping: 0,
		Total:    sess.Amount,
		ShippingAddress: orderdomain.ShippingAddress{
			Name:    sess.Shipping.Name,
			Phone:   sess.Shipping.Phone,
			Email:   sess.Shipping.Email,
			Address: sess.Shipping.Address,
			Notes:   sess.Shipping.Notes,
		},
		Payment:    sess.Method,
		Status:     status,
		PaymentRef: paymentRef,
		CreatedAt:  time.Now().UTC(),
	}
}

// freezeLines copies the cart into frozen order lines while the cart is
// still authoritative, before any payment is attempted. Lines whose
// product has vanished from the catalog are dropped rather than failing
// the checkout.
func (s *CheckoutService) freezeLines(ctx context.Context, userID string) ([]orderdomain.OrderItem, error) {
	cart, err := s.cart.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]orderdomain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := s.catalog.GetProduct(ctx, line.ProductID)
		if errors.Is(err, catalogrepo.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		items = append(items, orderdomain.OrderItem{
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.DiscountedPrice(),
			Image:       product.Image,
		})
	}

	return items, nil
}

// localOrderID mints a reference when neither the store nor the gateway
// supplied one. The base36 millisecond timestamp keeps it short and
// monotonic enough for a receipt.
func localOrderID() string {
	return "ORD-" + strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
}

// displayRef shortens long ids for the completion screen. Store uuids
// keep their first group, gateway handles their tail; short local ids
// pass through unchanged.
func displayRef(id string) string {
	switch {
	case strings.HasPrefix(id, "ORD-"):
		return id
	case strings.HasPrefix(id, "pi_"):
		if len(id) > 8 {
			return strings.ToUpper(id[len(id)-8:])
		}
		return strings.ToUpper(id)
	default:
		if len(id) > 8 {
			return strings.ToUpper(id[:8])
		}
		return strings.ToUpper(id)
	}
}
