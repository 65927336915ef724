package httpx

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"bookstore/internal/platform/crypto"
)

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Authenticator struct {
	secret      string
	revocations RevocationChecker
	logger      *zap.Logger
}

func NewAuthenticator(secret string, revocations RevocationChecker, logger *zap.Logger) *Authenticator {
	return &Authenticator{secret: secret, revocations: revocations, logger: logger}
}

// Authenticate verifies the bearer token when one is sent and stores its
// claims in the request context. Requests without an Authorization header
// continue anonymously; a malformed, expired or revoked token is rejected.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			unauthorized(w, r)
			return
		}

		claims, err := crypto.ParseToken(a.secret, token)
		if err != nil {
			unauthorized(w, r)
			return
		}

		if a.revocations != nil && claims.ID != "" {
			revoked, err := a.revocations.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				a.logger.Warn("failed to check token revocation",
					zap.String("request.id", RequestIDFrom(r)), zap.Error(err))
			}
			if err != nil || revoked {
				unauthorized(w, r)
				return
			}
		}

		if holder := identityHolderFrom(r.Context()); holder != nil {
			holder.userID = claims.Sub
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// RequireAuth rejects anonymous requests. It must run after Authenticate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ClaimsFrom(r) == nil {
			unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="bookstore"`)
	JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing credentials", nil)
}

type identityHolder struct {
	userID string
}

const identityHolderKey contextKey = "identityHolder"

func contextWithIdentityHolder(ctx context.Context, h *identityHolder) context.Context {
	return context.WithValue(ctx, identityHolderKey, h)
}

func identityHolderFrom(ctx context.Context) *identityHolder {
	h, _ := ctx.Value(identityHolderKey).(*identityHolder)
	return h
}
