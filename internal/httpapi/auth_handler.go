package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	sessiondomain "github.com/mariwi1503/mini-market-pondok/internal/session/domain"
)

// SessionAPI covers account lifecycle and profile edits.
type SessionAPI interface {
	Register(ctx context.Context, name, phone, password string) (*sessiondomain.User, error)
	Login(ctx context.Context, phone, password string) (string, *sessiondomain.User, error)
	Logout(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, userID, name, email, address string) (*sessiondomain.User, error)
}

type AuthHandler struct {
	sessions SessionAPI
	timeout  time.Duration
}

func NewAuthHandler(sessions SessionAPI, timeout time.Duration) *AuthHandler {
	return &AuthHandler{sessions: sessions, timeout: timeout}
}

type RegisterRequestDTO struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequestDTO struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type UpdateProfileRequestDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type LoginResponse struct {
	Token string              `json:"token"`
	User  *sessiondomain.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.sessions.Register(ctx, req.Name, req.Phone, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	token, user, err := h.sessions.Login(ctx, req.Phone, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, &LoginResponse{Token: token, User: user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	token := bearerToken(r)
	if token == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "missing bearer token")
		return
	}

	if err := h.sessions.Logout(ctx, token); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	updated, err := h.sessions.UpdateProfile(ctx, user.ID, req.Name, req.Email, req.Address)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
