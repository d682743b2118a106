package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	cartservice "github.com/mariwi1503/mini-market-pondok/internal/cart/service"
	catalogrepo "github.com/mariwi1503/mini-market-pondok/internal/catalog/repository"
	checkoutdomain "github.com/mariwi1503/mini-market-pondok/internal/checkout/domain"
	checkoutservice "github.com/mariwi1503/mini-market-pondok/internal/checkout/service"
	sessionrepo "github.com/mariwi1503/mini-market-pondok/internal/session/repository"
	sessionservice "github.com/mariwi1503/mini-market-pondok/internal/session/service"
)

func contextWithTimeout(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeout)
}

type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleServiceError maps the domain sentinels onto HTTP statuses, the
// analogue of translating transport status codes at the edge.
func handleServiceError(w http.ResponseWriter, err error) {
	var declined *checkoutservice.PaymentDeclinedError

	switch {
	case errors.Is(err, catalogrepo.ErrProductNotFound),
		errors.Is(err, catalogrepo.ErrCategoryNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, cartservice.ErrProductUnavailable):
		respondError(w, http.StatusConflict, "out_of_stock", err.Error())
	case errors.Is(err, checkoutservice.ErrEmptyCart),
		errors.Is(err, checkoutservice.ErrUnknownPaymentMethod),
		errors.Is(err, checkoutdomain.ErrShippingIncomplete),
		errors.Is(err, sessionservice.ErrPasswordTooShort),
		errors.Is(err, sessionservice.ErrMissingCredentials):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, checkoutservice.ErrNoActiveCheckout):
		respondError(w, http.StatusNotFound, "no_active_checkout", err.Error())
	case errors.Is(err, checkoutservice.ErrIllegalTransition),
		errors.Is(err, checkoutservice.ErrNoPaymentIntent):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.As(err, &declined):
		respondError(w, http.StatusPaymentRequired, "payment_declined", declined.Reason)
	case errors.Is(err, sessionservice.ErrPhoneTaken):
		respondError(w, http.StatusConflict, "phone_taken", err.Error())
	case errors.Is(err, sessionservice.ErrInvalidCredentials),
		errors.Is(err, sessionrepo.ErrTokenNotFound):
		respondError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, sessionrepo.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
