package httpapi

import (
	"context"
	"net/http"
	"time"

	orderdomain "github.com/mariwi1503/mini-market-pondok/internal/order/domain"
)

// OrderHistory is the read side of the local order log, newest first.
type OrderHistory interface {
	ListByUser(ctx context.Context, userID string) ([]*orderdomain.Order, error)
}

type OrdersHandler struct {
	history OrderHistory
	timeout time.Duration
}

func NewOrdersHandler(history OrderHistory, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{history: history, timeout: timeout}
}

type OrdersResponse struct {
	Orders []*orderdomain.Order `json:"orders"`
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	orders, err := h.history.ListByUser(ctx, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []*orderdomain.Order{}
	}
	respondJSON(w, http.StatusOK, &OrdersResponse{Orders: orders})
}
