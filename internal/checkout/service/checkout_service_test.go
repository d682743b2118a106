package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/mariwi1503/mini-market-pondok/internal/cart/domain"
	catalogdomain "github.com/mariwi1503/mini-market-pondok/internal/catalog/domain"
	d "github.com/mariwi1503/mini-market-pondok/internal/checkout/domain"
	orderdomain "github.com/mariwi1503/mini-market-pondok/internal/order/domain"
	"github.com/mariwi1503/mini-market-pondok/internal/payment"
)

type fixture struct {
	svc      *CheckoutService
	cart     *mockCart
	gateway  *mockGateway
	store    *mockStore
	history  *mockHistory
	notifier *mockNotifier
}

func discount(p int64) *int64 { return &p }

func newFixture() *fixture {
	cart := &mockCart{cart: &cartdomain.Cart{
		UserID:        "user1",
		SchemaVersion: cartdomain.SchemaVersion,
		Items: []cartdomain.CartItem{
			{ProductID: "p1", Quantity: 2},
		},
	}}
	catalog := &mockCatalog{products: map[string]*catalogdomain.Product{
		"p1": {ID: "p1", Name: "Indomie Goreng", Price: 3500, Stock: 100, Image: "/img/indomie.jpg"},
		"p2": {ID: "p2", Name: "Chitato Sapi Panggang", Price: 10000, Stock: 50, Discount: discount(20)},
	}}
	gateway := &mockGateway{confirm: payment.ConfirmResult{Captured: true}}
	store := &mockStore{nextID: "2f0c7a8e-5b1d-4e3a-9f6c-1a2b3c4d5e6f"}
	history := &mockHistory{}
	notifier := newMockNotifier()

	svc := NewCheckoutService(cart, catalog, gateway, store, history, notifier)
	svc.codDelay = 0

	return &fixture{svc: svc, cart: cart, gateway: gateway, store: store, history: history, notifier: notifier}
}

func validShipping() d.ShippingInfo {
	return d.ShippingInfo{
		Name:    "Ahmad Santri",
		Phone:   "081234567890",
		Address: "Jl. Pesantren No. 1, Bandung",
	}
}

func (f *fixture) beginAndShip(t *testing.T, method orderdomain.PaymentMethod) *d.Session {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.Begin(ctx, "user1")
	require.NoError(t, err)
	sess, err := f.svc.SubmitShipping(ctx, "user1", validShipping(), method)
	require.NoError(t, err)
	return sess
}

func (f *fixture) waitPublished(t *testing.T) *orderdomain.Order {
	t.Helper()
	select {
	case order := <-f.notifier.published:
		return order
	case <-time.After(time.Second):
		t.Fatal("no order confirmation was published")
		return nil
	}
}

func TestBegin_EmptyCart(t *testing.T) {
	f := newFixture()
	f.cart.cart = nil

	_, err := f.svc.Begin(context.Background(), "user1")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBegin_DiscardsPriorSession(t *testing.T) {
	f := newFixture()
	f.beginAndShip(t, orderdomain.PaymentMethodCard)

	sess, err := f.svc.Begin(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, d.StateCollectingShippingInfo, sess.State)
	assert.Nil(t, sess.Intent)
}

func TestCurrent_NoSession(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Current("user1")
	assert.ErrorIs(t, err, ErrNoActiveCheckout)
}

func TestSubmitShipping_IncompleteInfo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Begin(ctx, "user1")
	require.NoError(t, err)

	info := validShipping()
	info.Address = "   "
	_, err = f.svc.SubmitShipping(ctx, "user1", info, orderdomain.PaymentMethodCard)
	assert.ErrorIs(t, err, d.ErrShippingIncomplete)

	sess, err := f.svc.Current("user1")
	require.NoError(t, err)
	assert.Equal(t, d.StateCollectingShippingInfo, sess.State)
}

func TestSubmitShipping_UnknownMethod(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Begin(ctx, "user1")
	require.NoError(t, err)

	_, err = f.svc.SubmitShipping(ctx, "user1", validShipping(), orderdomain.PaymentMethod("bank_transfer"))
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)
}

func TestSubmitShipping_CardCreatesIntent(t *testing.T) {
	f := newFixture()
	sess := f.beginAndShip(t, orderdomain.PaymentMethodCard)

	assert.Equal(t, d.StateAwaitingPayment, sess.State)
	assert.Equal(t, int64(7000), sess.Amount)
	require.NotNil(t, sess.Intent)
	assert.Equal(t, int64(7000), sess.Intent.Amount)
	assert.Equal(t, "idr", sess.Intent.Currency)
	assert.Equal(t, map[string]string{
		"customer_name":  "Ahmad Santri",
		"customer_phone": "081234567890",
		"item_count":     "1",
	}, f.gateway.lastMetadata)
}

func TestSubmitShipping_IntentFailureKeepsPaymentPhase(t *testing.T) {
	f := newFixture()
	f.gateway.createErr = errors.New("gateway down")

	sess := f.beginAndShip(t, orderdomain.PaymentMethodCard)

	assert.Equal(t, d.StateAwaitingPayment, sess.State)
	assert.Nil(t, sess.Intent)
	assert.NotEmpty(t, sess.IntentErr)
}

func TestRetryIntent_RecoversAfterFailure(t *testing.T) {
	f := newFixture()
	f.gateway.createErr = errors.New("gateway down")
	f.beginAndShip(t, orderdomain.PaymentMethodCard)

	f.gateway.createErr = nil
	sess, err := f.svc.RetryIntent(context.Background(), "user1")
	require.NoError(t, err)
	require.NotNil(t, sess.Intent)
	assert.Empty(t, sess.IntentErr)
}

func TestRetryIntent_OutsidePaymentPhase(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Begin(context.Background(), "user1")
	require.NoError(t, err)

	_, err = f.svc.RetryIntent(context.Background(), "user1")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestSelectMethod_SwitchToCOD(t *testing.T) {
	f := newFixture()
	f.beginAndShip(t, orderdomain.PaymentMethodCard)

	sess, err := f.svc.SelectMethod(context.Background(), "user1", orderdomain.PaymentMethodCOD)
	require.NoError(t, err)
	assert.Equal(t, orderdomain.PaymentMethodCOD, sess.Method)
}

func TestSelectMethod_SwitchToCardCreatesIntent(t *testing.T) {
	f := newFixture()
	f.beginAndShip(t, orderdomain.PaymentMethodCOD)

	sess, err := f.svc.SelectMethod(context.Background(), "user1", orderdomain.PaymentMethodCard)
	require.NoError(t, err)
	assert.NotNil(t, sess.Intent)
}

func TestConfirmCardPayment_NoIntent(t *testing.T) {
	f := newFixture()
	f.gateway.createErr = errors.New("gateway down")
	f.beginAndShip(t, orderdomain.PaymentMethodCard)

	_, err := f.svc.ConfirmCardPayment(context.Background(), "user1")
	assert.ErrorIs(t, err, ErrNoPaymentIntent)
}

func TestConfirmCardPayment_Declined(t *testing.T) {
	f := newFixture()
	f.gateway.confirm = payment.ConfirmResult{Captured: false, Reason: "card declined"}
	f.beginAndShip(t, orderdomain.PaymentMethodCard)

	_, err := f.svc.ConfirmCardPayment(context.Background(), "user1")
	var declined *PaymentDeclinedError
	require.ErrorAs(t, err, &declined)
	assert.Equal(t, "card declined", declined.Reason)

	sess, err := f.svc.Current("user1")
	require.NoError(t, err)
	assert.Equal(t, d.StateAwaitingPayment, sess.State)
	assert.False(t, sess.Captured)
	assert.False(t, f.cart.cleared)
}

func TestConfirmCardPayment_Captured(t *testing.T) {
	f := newFixture()
	f.beginAndShip(t, orderdomain.PaymentMethodCard)

	sess, err := f.svc.ConfirmCardPayment(context.Background(), "user1")
	require.NoError(t, err)

	assert.Equal(t, d.StateCompleted, sess.State)
	assert.True(t, sess.Captured)
	assert.Equal(t, "2F0C7A8E", sess.OrderID)
	assert.True(t, f.cart.cleared)

	require.Len(t, f.history.appended, 1)
	order := f.history.appended[0]
	assert.Equal(t, "2f0c7a8e-5b1d-4e3a-9f6c-1a2b3c4d5e6f", order.ID)
	assert.Equal(t, orderdomain.StatusPaid, order.Status)
	assert.Equal(t, orderdomain.PaymentMethodCard, order.Payment)
	assert.Equal(t, "pi_3OqK8sAbCdEf1234", order.PaymentRef)
	assert.Equal(t, int64(7000), order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Indomie Goreng", order.Items[0].ProductName)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, int64(3500), order.Items[0].UnitPrice)

	published := f.waitPublished(t)
	assert.Equal(t, order.ID, published.ID)
}

func TestConfirmCardPayment_StoreDownFallsBackToIntentID(t *testing.T) {
	f := newFixture()
	f.store.err = errors.New("connection refused")
	f.beginAndShip(t, orderdomain.PaymentMethodCard)

	sess, err := f.svc.ConfirmCardPayment(context.Background(), "user1")
	require.NoError(t, err)

	assert.Equal(t, d.StateCompleted, sess.State)
	assert.Equal(t, "CDEF1234", sess.OrderID)
	require.Len(t, f.history.appended, 1)
	assert.Equal(t, "pi_3OqK8sAbCdEf1234", f.history.appended[0].ID)
}

func TestConfirmCashOnDelivery(t *testing.T) {
	f := newFixture()
	f.beginAndShip(t, orderdomain.PaymentMethodCOD)

	sess, err := f.svc.ConfirmCashOnDelivery(context.Background(), "user1")
	require.NoError(t, err)

	assert.Equal(t, d.StateCompleted, sess.State)
	assert.False(t, sess.Captured)
	assert.Zero(t, f.gateway.confirmed)
	assert.True(t, f.cart.cleared)

	require.Len(t, f.history.appended, 1)
	order := f.history.appended[0]
	assert.Equal(t, orderdomain.StatusPending, order.Status)
	assert.Equal(t, orderdomain.PaymentMethodCOD, order.Payment)
	assert.Empty(t, order.PaymentRef)
}

func TestConfirmCashOnDelivery_StoreDownMintsLocalID(t *testing.T) {
	f := newFixture()
	f.store.err = errors.New("connection refused")
	f.beginAndShip(t, orderdomain.PaymentMethodCOD)

	sess, err := f.svc.ConfirmCashOnDelivery(context.Background(), "user1")
	require.NoError(t, err)

	require.Len(t, f.history.appended, 1)
	assert.True(t, len(f.history.appended[0].ID) > 4)
	assert.Equal(t, "ORD-", f.history.appended[0].ID[:4])
	assert.Equal(t, f.history.appended[0].ID, sess.OrderID)
}

func TestConfirm_BeforeShipping(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Begin(context.Background(), "user1")
	require.NoError(t, err)

	_, err = f.svc.ConfirmCardPayment(context.Background(), "user1")
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = f.svc.ConfirmCashOnDelivery(context.Background(), "user1")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCompletedSessionIsTerminal(t *testing.T) {
	f := newFixture()
	f.beginAndShip(t, orderdomain.PaymentMethodCOD)

	_, err := f.svc.ConfirmCashOnDelivery(context.Background(), "user1")
	require.NoError(t, err)

	_, err = f.svc.ConfirmCashOnDelivery(context.Background(), "user1")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestConfirmCardPayment_CartStoreDownAfterCapture(t *testing.T) {
	f := newFixture()
	f.beginAndShip(t, orderdomain.PaymentMethodCard)

	// the cart store goes down between shipping and confirmation; the
	// captured payment must still end in a completed order
	f.cart.getErr = errors.New("connection reset")

	sess, err := f.svc.ConfirmCardPayment(context.Background(), "user1")
	require.NoError(t, err)

	assert.Equal(t, d.StateCompleted, sess.State)
	assert.True(t, sess.Captured)
	assert.NotEmpty(t, sess.OrderID)

	require.Len(t, f.history.appended, 1)
	order := f.history.appended[0]
	assert.Equal(t, orderdomain.StatusPaid, order.Status)
	assert.Equal(t, int64(7000), order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Indomie Goreng", order.Items[0].ProductName)
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestOrderLinesFrozenAtShipping(t *testing.T) {
	f := newFixture()
	sess := f.beginAndShip(t, orderdomain.PaymentMethodCard)
	require.Len(t, sess.Items, 1)

	// mutations after the shipping step must not leak into the order
	f.cart.m.Lock()
	f.cart.cart.Items = append(f.cart.cart.Items, cartdomain.CartItem{ProductID: "p2", Quantity: 3})
	f.cart.m.Unlock()

	_, err := f.svc.ConfirmCardPayment(context.Background(), "user1")
	require.NoError(t, err)

	require.Len(t, f.history.appended, 1)
	order := f.history.appended[0]
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Indomie Goreng", order.Items[0].ProductName)
	assert.Equal(t, int64(7000), order.Total)
}

func TestFreezeDropsVanishedProducts(t *testing.T) {
	f := newFixture()
	f.cart.cart.Items = append(f.cart.cart.Items, cartdomain.CartItem{ProductID: "ghost", Quantity: 1})
	f.beginAndShip(t, orderdomain.PaymentMethodCOD)

	_, err := f.svc.ConfirmCashOnDelivery(context.Background(), "user1")
	require.NoError(t, err)

	require.Len(t, f.history.appended, 1)
	require.Len(t, f.history.appended[0].Items, 1)
	assert.Equal(t, "Indomie Goreng", f.history.appended[0].Items[0].ProductName)
}
