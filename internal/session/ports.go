package session

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mock_store.go -package=session

// Store records revoked access tokens by their jti.
type Store interface {
	// Revoke marks jti as revoked until expiresAt. Revoking twice is not an error.
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// CleanupExpired drops entries whose token has expired anyway.
	CleanupExpired(ctx context.Context) error
}
