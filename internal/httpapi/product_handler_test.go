package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	catalogdomain "github.com/mariwi1503/mini-market-pondok/internal/catalog/domain"
	catalogrepo "github.com/mariwi1503/mini-market-pondok/internal/catalog/repository"
)

type catalogMock struct {
	products []*catalogdomain.Product
	err      error
}

func (c catalogMock) GetAllProducts(context.Context) ([]*catalogdomain.Product, error) {
	return c.products, c.err
}

func (c catalogMock) GetProduct(_ context.Context, id string) (*catalogdomain.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, catalogrepo.ErrProductNotFound
}

func (c catalogMock) GetProductByHandle(_ context.Context, handle string) (*catalogdomain.Product, error) {
	for _, p := range c.products {
		if p.Handle == handle {
			return p, nil
		}
	}
	return nil, catalogrepo.ErrProductNotFound
}

func (c catalogMock) GetProductsByCategory(context.Context, string) ([]*catalogdomain.Product, error) {
	return c.products, c.err
}

func (c catalogMock) GetPromoProducts(context.Context) ([]*catalogdomain.Product, error) {
	return c.products, c.err
}

func (c catalogMock) SearchProducts(context.Context, string) ([]*catalogdomain.Product, error) {
	return c.products, c.err
}

func (c catalogMock) GetAllCategories(context.Context) ([]*catalogdomain.Category, error) {
	return nil, c.err
}

func (c catalogMock) Close() error { return nil }

func testDiscount(v int64) *int64 { return &v }

func TestListProducts_Success(t *testing.T) {
	mock := catalogMock{products: []*catalogdomain.Product{
		{ID: "p1", Name: "Indomie Goreng", Handle: "indomie-goreng", Price: 3500, Stock: 100},
		{ID: "p2", Name: "Chitato Sapi Panggang", Handle: "chitato", Price: 10000, Stock: 50, Discount: testDiscount(20)},
	}}

	handler := NewProductHandler(mock, 5*time.Second)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)

	handler.List(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response ProductsResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Products) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(response.Products))
	}
	if response.Products[1].DiscountedPrice != 8000 {
		t.Errorf("Expected discounted price 8000, got %d", response.Products[1].DiscountedPrice)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	handler := NewProductHandler(catalogMock{}, 5*time.Second)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/ghost", nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "ghost")
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))

	handler.Get(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestSearchProducts_EmptyQueryReturnsAll(t *testing.T) {
	mock := catalogMock{products: []*catalogdomain.Product{
		{ID: "p1", Name: "Indomie Goreng", Price: 3500},
	}}

	handler := NewProductHandler(mock, 5*time.Second)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/search", nil)

	handler.Search(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response ProductsResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Products) != 1 {
		t.Errorf("Expected 1 product, got %d", len(response.Products))
	}
}
