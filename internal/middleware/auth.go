// Package middleware contains the HTTP middleware of the shortener: bearer
// authentication, request logging, request metrics, gzip request bodies and
// the trusted subnet guard.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/atinyakov/shortlinks/internal/app/service"
)

// ContextKey is a custom type used for keys in the context.
type ContextKey string

// UserIDKey stores the authenticated uuid.UUID in the request context.
const UserIDKey ContextKey = "userID"

// InjectUserID adds the user ID to the request context.
func InjectUserID(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(req.Context(), UserIDKey, userID)
	return req.WithContext(ctx)
}

// UserIDFromContext returns the authenticated user, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func authenticate(auth service.AuthIface, r *http.Request) (uuid.UUID, bool) {
	token, ok := bearerToken(r)
	if !ok {
		return uuid.Nil, false
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		return uuid.Nil, false
	}

	id, err := claims.UserID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithOptionalAuth injects the user when a valid bearer token is present.
// Missing or invalid tokens fall through as anonymous.
func WithOptionalAuth(auth service.AuthIface) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := authenticate(auth, r); ok {
				r = InjectUserID(r, id)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without a valid bearer token with 401.
func RequireAuth(auth service.AuthIface) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := authenticate(auth, r)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Bearer realm="shortlinks"`)
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
				return
			}
			next.ServeHTTP(w, InjectUserID(r, id))
		})
	}
}
