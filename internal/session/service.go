// Package session tracks revoked access tokens so that a logout takes
// effect before the token expires.
package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// Revoke revokes the token jti of userID. Tokens that already expired are
// ignored.
func (s *Service) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	if !expiresAt.After(s.now()) {
		return nil
	}
	return s.store.Revoke(ctx, jti, userID, expiresAt)
}

func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return s.store.IsRevoked(ctx, jti)
}

// RunCleanup calls CleanupExpired every interval until ctx is done.
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.store.CleanupExpired(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("revoked token cleanup failed", zap.Error(err))
			}
		}
	}
}
