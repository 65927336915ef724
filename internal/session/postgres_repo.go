package session

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	revokeSQL = `
INSERT INTO revoked_tokens (jti, user_id, expires_at)
VALUES ($1, $2::uuid, $3)
ON CONFLICT (jti) DO UPDATE
SET expires_at = GREATEST(revoked_tokens.expires_at, EXCLUDED.expires_at)`

	isRevokedSQL = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1 AND expires_at > now())`

	// Deletes run in batches so a large backlog never holds long locks.
	cleanupSQL = `
DELETE FROM revoked_tokens
WHERE jti IN (SELECT jti FROM revoked_tokens WHERE expires_at <= now() LIMIT $1)`
	cleanupBatchSize = 1000
)

// PostgresRepo keeps revoked token ids in the revoked_tokens table.
type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if _, err := r.db.Exec(ctx, revokeSQL, jti, userID, expiresAt); err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}
	return nil
}

func (r *PostgresRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	var revoked bool
	if err := r.db.QueryRow(ctx, isRevokedSQL, jti).Scan(&revoked); err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}

// CleanupExpired removes revocations whose token has expired anyway.
func (r *PostgresRepo) CleanupExpired(ctx context.Context) error {
	for {
		n, err := r.cleanupBatch(ctx)
		if err != nil {
			return err
		}
		if n < cleanupBatchSize {
			return nil
		}
	}
}

func (r *PostgresRepo) cleanupBatch(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	tag, err := r.db.Exec(ctx, cleanupSQL, cleanupBatchSize)
	if err != nil {
		return 0, fmt.Errorf("cleanup revoked tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
