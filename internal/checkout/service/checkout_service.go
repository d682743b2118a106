package service

import (
	"context"
	"sync"
	"time"

	cartdomain "github.com/mariwi1503/mini-market-pondok/internal/cart/domain"
	cartservice "github.com/mariwi1503/mini-market-pondok/internal/cart/service"
	catalogrepo "github.com/mariwi1503/mini-market-pondok/internal/catalog/repository"
	d "github.com/mariwi1503/mini-market-pondok/internal/checkout/domain"
	orderdomain "github.com/mariwi1503/mini-market-pondok/internal/order/domain"
	orderrepo "github.com/mariwi1503/mini-market-pondok/internal/order/repository"
	"github.com/mariwi1503/mini-market-pondok/internal/payment"
)

// CartEngine is the slice of the cart service the checkout drives.
// Consumers define this interface, not the cart implementation.
type CartEngine interface {
	GetCart(ctx context.Context, userID string) (*cartdomain.Cart, error)
	Totals(ctx context.Context, userID string) (*cartservice.Totals, error)
	ClearCart(ctx context.Context, userID string) error
}

// Notifier dispatches the order-confirmation message. Dispatch is
// fire-and-forget; failures are logged and never join the completion
// result.
type Notifier interface {
	PublishOrderConfirmation(ctx context.Context, order *orderdomain.Order) error
}

type CheckoutService struct {
	cart     CartEngine
	catalog  catalogrepo.CatalogRepository
	gateway  payment.Gateway
	store    orderrepo.RemoteStore
	history  orderrepo.HistoryStore
	notifier Notifier

	// codDelay simulates processing feedback for cash on delivery; it
	// is user feedback, not a correctness requirement.
	codDelay time.Duration

	// Sessions are mutated only by their own user's requests; the map
	// itself is shared and needs the lock.
	mu       sync.Mutex
	sessions map[string]*d.Session
}

func NewCheckoutService(
	cart CartEngine,
	catalog catalogrepo.CatalogRepository,
	gateway payment.Gateway,
	store orderrepo.RemoteStore,
	history orderrepo.HistoryStore,
	notifier Notifier,
) *CheckoutService {
	return &CheckoutService{
		cart:     cart,
		catalog:  catalog,
		gateway:  gateway,
		store:    store,
		history:  history,
		notifier: notifier,
		codDelay: 1500 * time.Millisecond,
		sessions: make(map[string]*d.Session),
	}
}

// Begin starts a checkout for the user's current cart. A non-empty cart
// is required. Any earlier unfinished session is discarded: re-entering
// checkout always restarts at the shipping step.
func (s *CheckoutService) Begin(ctx context.Context, userID string) (*d.Session, error) {
	totals, err := s.cart.Totals(ctx, userID)
	if err != nil {
		return nil, err
	}
	if totals.LineCount == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	sess := &d.Session{
		UserID:    userID,
		State:     d.StateCollectingShippingInfo,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()

	return sess, nil
}

// Current returns the user's in-flight session.
func (s *CheckoutService) Current(userID string) (*d.Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoActiveCheckout
	}
	return sess, nil
}

func (s *CheckoutService) touch(sess *d.Session) {
	sess.UpdatedAt = time.Now()
}
