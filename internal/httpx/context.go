package httpx

import (
	"context"
	"net/http"

	"bookstore/internal/platform/crypto"
)

type contextKey string

const (
	claimsKey    contextKey = "claims"
	requestIDKey contextKey = "requestID"
)

// ClaimsFrom returns the verified token claims of the request, or nil for an
// anonymous request.
func ClaimsFrom(r *http.Request) *crypto.Claims {
	if v, ok := r.Context().Value(claimsKey).(*crypto.Claims); ok {
		return v
	}
	return nil
}

// UserIDFrom retrieves the authenticated user ID from the request context.
func UserIDFrom(r *http.Request) string {
	if c := ClaimsFrom(r); c != nil {
		return c.Sub
	}
	return ""
}

// StaffFrom reports whether the authenticated user is staff.
func StaffFrom(r *http.Request) bool {
	if c := ClaimsFrom(r); c != nil {
		return c.Staff
	}
	return false
}

func ContextWithClaims(ctx context.Context, claims *crypto.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
