package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"

	"bookstore/internal/platform/boltdb"
)

type boltEntry struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BoltRepo keeps revoked tokens in the revoked_tokens bucket keyed by jti.
type BoltRepo struct {
	db  *bolt.DB
	now func() time.Time
}

func NewBoltRepo(db *bolt.DB) *BoltRepo {
	return &BoltRepo{db: db, now: time.Now}
}

func (r *BoltRepo) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(boltEntry{UserID: userID, ExpiresAt: expiresAt.UTC()})
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltdb.BucketRevokedTokens).Put([]byte(jti), data)
	})
}

func (r *BoltRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var revoked bool
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltdb.BucketRevokedTokens).Get([]byte(jti))
		if v == nil {
			return nil
		}
		var e boltEntry
		if err := json.Unmarshal(v, &e); err != nil {
			return err
		}
		revoked = e.ExpiresAt.After(r.now())
		return nil
	})
	return revoked, err
}

func (r *BoltRepo) CleanupExpired(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := r.now()
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltdb.BucketRevokedTokens)
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var e boltEntry
			if err := json.Unmarshal(v, &e); err != nil || !e.ExpiresAt.After(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
