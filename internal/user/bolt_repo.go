package user

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"

	"bookstore/internal/platform/boltdb"
)

// boltRecord is the stored form of a User; unlike User it keeps the
// password hash.
type boltRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BoltRepo keeps users in the users bucket keyed by id, and a
// username to id index in users_by_name.
type BoltRepo struct {
	db *bolt.DB
}

func NewBoltRepo(db *bolt.DB) *BoltRepo {
	return &BoltRepo{db: db}
}

func (r *BoltRepo) Create(ctx context.Context, u *User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()
	rec := boltRecord{
		ID:           uuid.NewString(),
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.Password,
		IsStaff:      u.IsStaff,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		byName := tx.Bucket(boltdb.BucketUsersByName)
		if byName.Get([]byte(rec.Username)) != nil {
			return ErrAlreadyExists
		}
		if err := byName.Put([]byte(rec.Username), []byte(rec.ID)); err != nil {
			return err
		}
		return tx.Bucket(boltdb.BucketUsers).Put([]byte(rec.ID), data)
	})
	if err != nil {
		return err
	}

	u.ID = rec.ID
	u.CreatedAt = rec.CreatedAt
	u.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *BoltRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	var u User
	err := r.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(boltdb.BucketUsersByName).Get([]byte(username))
		if id == nil {
			return ErrNotFound
		}
		var err error
		u, err = getUser(tx, id)
		return err
	})
	return u, err
}

func (r *BoltRepo) GetByID(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	var u User
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		u, err = getUser(tx, []byte(id))
		return err
	})
	return u, err
}

func getUser(tx *bolt.Tx, id []byte) (User, error) {
	v := tx.Bucket(boltdb.BucketUsers).Get(id)
	if v == nil {
		return User{}, ErrNotFound
	}
	var rec boltRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return User{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	return User{
		ID:        rec.ID,
		Username:  rec.Username,
		Email:     rec.Email,
		Password:  rec.PasswordHash,
		IsStaff:   rec.IsStaff,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}
