package service

import (
	"context"
	"errors"
	"sync"

	cartdomain "github.com/mariwi1503/mini-market-pondok/internal/cart/domain"
	cartservice "github.com/mariwi1503/mini-market-pondok/internal/cart/service"
	catalogdomain "github.com/mariwi1503/mini-market-pondok/internal/catalog/domain"
	catalogrepo "github.com/mariwi1503/mini-market-pondok/internal/catalog/repository"
	orderdomain "github.com/mariwi1503/mini-market-pondok/internal/order/domain"
	"github.com/mariwi1503/mini-market-pondok/internal/payment"
)

type mockCart struct {
	m       sync.Mutex
	cart    *cartdomain.Cart
	getErr  error
	cleared bool
}

func (m *mockCart) GetCart(_ context.Context, userID string) (*cartdomain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cart == nil {
		return &cartdomain.Cart{UserID: userID, SchemaVersion: cartdomain.SchemaVersion}, nil
	}
	return m.cart, nil
}

func (m *mockCart) Totals(context.Context, string) (*cartservice.Totals, error) {
	m.m.Lock()
	defer m.m.Unlock()
	t := &cartservice.Totals{}
	if m.cart == nil {
		return t, nil
	}
	for _, line := range m.cart.Items {
		t.LineCount++
		t.Subtotal += int64(line.Quantity) * 3500
	}
	t.Total = t.Subtotal
	return t, nil
}

func (m *mockCart) ClearCart(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cleared = true
	m.cart = nil
	return nil
}

type mockCatalog struct {
	products map[string]*catalogdomain.Product
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (*catalogdomain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, catalogrepo.ErrProductNotFound
	}
	return p, nil
}

func (m *mockCatalog) GetAllProducts(context.Context) ([]*catalogdomain.Product, error) {
	return nil, nil
}

func (m *mockCatalog) GetProductByHandle(context.Context, string) (*catalogdomain.Product, error) {
	return nil, catalogrepo.ErrProductNotFound
}

func (m *mockCatalog) GetProductsByCategory(context.Context, string) ([]*catalogdomain.Product, error) {
	return nil, nil
}

func (m *mockCatalog) GetPromoProducts(context.Context) ([]*catalogdomain.Product, error) {
	return nil, nil
}

func (m *mockCatalog) SearchProducts(context.Context, string) ([]*catalogdomain.Product, error) {
	return nil, nil
}

func (m *mockCatalog) GetAllCategories(context.Context) ([]*catalogdomain.Category, error) {
	return nil, nil
}

func (m *mockCatalog) Close() error { return nil }

type mockGateway struct {
	m            sync.Mutex
	createErr    error
	confirm      payment.ConfirmResult
	confirmErr   error
	created      int
	confirmed    int
	lastMetadata map[string]string
}

func (m *mockGateway) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (*payment.Intent, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created++
	m.lastMetadata = metadata
	return &payment.Intent{
		ID:           "pi_3OqK8sAbCdEf1234",
		ClientSecret: "pi_3OqK8sAbCdEf1234_secret_xyz",
		Amount:       amount,
		Currency:     currency,
	}, nil
}

func (m *mockGateway) Confirm(context.Context, string) (*payment.ConfirmResult, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.confirmErr != nil {
		return nil, m.confirmErr
	}
	m.confirmed++
	result := m.confirm
	return &result, nil
}

type mockStore struct {
	m       sync.Mutex
	err     error
	created []*orderdomain.Order
	nextID  string
}

func (m *mockStore) CreateOrder(_ context.Context, order *orderdomain.Order) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.created = append(m.created, order)
	return m.nextID, nil
}

func (m *mockStore) GetOrderByID(context.Context, string) (*orderdomain.Order, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStore) Close() error { return nil }

type mockHistory struct {
	m        sync.Mutex
	appended []*orderdomain.Order
}

func (m *mockHistory) Append(_ context.Context, order *orderdomain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.appended = append(m.appended, order)
	return nil
}

func (m *mockHistory) ListByUser(context.Context, string) ([]*orderdomain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	return m.appended, nil
}

func (m *mockHistory) Close() error { return nil }

// mockNotifier hands published orders to the test over a channel so the
// fire-and-forget goroutine can be waited on.
type mockNotifier struct {
	published chan *orderdomain.Order
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{published: make(chan *orderdomain.Order, 1)}
}

func (m *mockNotifier) PublishOrderConfirmation(_ context.Context, order *orderdomain.Order) error {
	m.published <- order
	return nil
}
