package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	cartdomain "github.com/mariwi1503/mini-market-pondok/internal/cart/domain"
	cartservice "github.com/mariwi1503/mini-market-pondok/internal/cart/service"
)

// CartAPI is the slice of the cart engine the HTTP surface needs.
type CartAPI interface {
	GetCart(ctx context.Context, userID string) (*cartdomain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (int, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (int, error)
	RemoveItem(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
	Totals(ctx context.Context, userID string) (*cartservice.Totals, error)
}

type CartHandler struct {
	cart    CartAPI
	timeout time.Duration
}

func NewCartHandler(cart CartAPI, timeout time.Duration) *CartHandler {
	return &CartHandler{cart: cart, timeout: timeout}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// CartResponse carries the cart lines plus the running totals; the
// mobile client renders the badge and the summary bar from one payload.
type CartResponse struct {
	Items           []CartItemResponse `json:"items"`
	LineCount       int                `json:"line_count"`
	Subtotal        int64              `json:"subtotal"`
	Shipping        int64              `json:"shipping"`
	Total           int64              `json:"total"`
	AppliedQuantity *int               `json:"applied_quantity,omitempty"`
}

func (h *CartHandler) respondCart(ctx context.Context, w http.ResponseWriter, userID string, status int, applied *int) {
	cart, err := h.cart.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	totals, err := h.cart.Totals(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]CartItemResponse, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemResponse{ProductID: item.ProductID, Quantity: item.Quantity, AddedAt: item.AddedAt}
	}

	respondJSON(w, status, &CartResponse{
		Items:           items,
		LineCount:       totals.LineCount,
		Subtotal:        totals.Subtotal,
		Shipping:        totals.Shipping,
		Total:           totals.Total,
		AppliedQuantity: applied,
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	h.respondCart(ctx, w, user.ID, http.StatusOK, nil)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	applied, err := h.cart.AddItem(ctx, user.ID, req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondCart(ctx, w, user.ID, http.StatusCreated, &applied)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	applied, err := h.cart.SetQuantity(ctx, user.ID, productID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondCart(ctx, w, user.ID, http.StatusOK, &applied)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	if err := h.cart.RemoveItem(ctx, user.ID, productID); err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondCart(ctx, w, user.ID, http.StatusOK, nil)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.cart.ClearCart(ctx, user.ID); err != nil {
		handleServiceError(w, err)
		return
	}
	h.respondCart(ctx, w, user.ID, http.StatusOK, nil)
}
