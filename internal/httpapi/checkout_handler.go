package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	checkoutdomain "github.com/mariwi1503/mini-market-pondok/internal/checkout/domain"
	orderdomain "github.com/mariwi1503/mini-market-pondok/internal/order/domain"
)

// CheckoutAPI is the checkout state machine as the HTTP surface sees
// it. Every call is scoped to the authenticated user's own session.
type CheckoutAPI interface {
	Begin(ctx context.Context, userID string) (*checkoutdomain.Session, error)
	Current(userID string) (*checkoutdomain.Session, error)
	SubmitShipping(ctx context.Context, userID string, info checkoutdomain.ShippingInfo, method orderdomain.PaymentMethod) (*checkoutdomain.Session, error)
	SelectMethod(ctx context.Context, userID string, method orderdomain.PaymentMethod) (*checkoutdomain.Session, error)
	RetryIntent(ctx context.Context, userID string) (*checkoutdomain.Session, error)
	ConfirmCardPayment(ctx context.Context, userID string) (*checkoutdomain.Session, error)
	ConfirmCashOnDelivery(ctx context.Context, userID string) (*checkoutdomain.Session, error)
}

type CheckoutHandler struct {
	checkout CheckoutAPI
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutAPI, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, timeout: timeout}
}

type ShippingRequestDTO struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"payment_method"`
}

type SelectMethodRequestDTO struct {
	PaymentMethod string `json:"payment_method"`
}

// SessionResponse is the client's view of the checkout. The payment
// intent is reduced to the handle and client secret the paying client
// needs; nothing else leaves the server.
type SessionResponse struct {
	State           string                      `json:"state"`
	Amount          int64                       `json:"amount"`
	Method          string                      `json:"method,omitempty"`
	Shipping        checkoutdomain.ShippingInfo `json:"shipping"`
	PaymentIntentID string                      `json:"payment_intent_id,omitempty"`
	ClientSecret    string                      `json:"client_secret,omitempty"`
	IntentError     string                      `json:"intent_error,omitempty"`
	Captured        bool                        `json:"captured"`
	OrderID         string                      `json:"order_id,omitempty"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

func toSessionResponse(sess *checkoutdomain.Session) *SessionResponse {
	resp := &SessionResponse{
		State:       sess.State.String(),
		Amount:      sess.Amount,
		Method:      string(sess.Method),
		Shipping:    sess.Shipping,
		IntentError: sess.IntentErr,
		Captured:    sess.Captured,
		OrderID:     sess.OrderID,
		UpdatedAt:   sess.UpdatedAt,
	}
	if sess.Intent != nil {
		resp.PaymentIntentID = sess.Intent.ID
		resp.ClientSecret = sess.Intent.ClientSecret
	}
	return resp
}

func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	sess, err := h.checkout.Begin(ctx, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	sess, err := h.checkout.Current(user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req ShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	info := checkoutdomain.ShippingInfo{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
	}

	sess, err := h.checkout.SubmitShipping(ctx, user.ID, info, orderdomain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (h *CheckoutHandler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req SelectMethodRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess, err := h.checkout.SelectMethod(ctx, user.ID, orderdomain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (h *CheckoutHandler) RetryIntent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	sess, err := h.checkout.RetryIntent(ctx, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (h *CheckoutHandler) ConfirmCard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	sess, err := h.checkout.ConfirmCardPayment(ctx, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (h *CheckoutHandler) ConfirmCOD(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	sess, err := h.checkout.ConfirmCashOnDelivery(ctx, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(sess))
}
