package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sessiondomain "github.com/mariwi1503/mini-market-pondok/internal/session/domain"
)

type contextKey string

const (
	userContextKey      contextKey = "user"
	requestIDContextKey contextKey = "request_id"
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenResolver turns a bearer token into the authenticated user.
type TokenResolver interface {
	GetByToken(ctx context.Context, token string) (*sessiondomain.User, error)
}

// AuthMiddleware resolves the Authorization bearer token. Requests
// without a valid token get 401 plus a redirect hint carrying the
// original target, so the client can come back after signing in.
func AuthMiddleware(sessions TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respondUnauthenticated(w, r, "missing bearer token")
				return
			}

			user, err := sessions.GetByToken(r.Context(), token)
			if err != nil {
				respondUnauthenticated(w, r, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func respondUnauthenticated(w http.ResponseWriter, r *http.Request, message string) {
	respondJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:    message,
		Code:     "unauthenticated",
		Redirect: "/auth?next=" + url.QueryEscape(r.URL.RequestURI()),
	})
}

func userFromContext(ctx context.Context) *sessiondomain.User {
	if user, ok := ctx.Value(userContextKey).(*sessiondomain.User); ok {
		return user
	}
	return nil
}

// requireUser fetches the authenticated user set by AuthMiddleware.
// A nil user means the route was mounted without the middleware.
func requireUser(w http.ResponseWriter, r *http.Request) (*sessiondomain.User, bool) {
	user := userFromContext(r.Context())
	if user == nil {
		respondUnauthenticated(w, r, "missing user authentication")
		return nil, false
	}
	return user, true
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}
