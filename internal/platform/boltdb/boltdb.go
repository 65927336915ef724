// Package boltdb opens the embedded single-file store used by the bolt
// storage driver and owns its bucket layout.
package boltdb

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

var (
	BucketUsers         = []byte("users")
	BucketUsersByName   = []byte("users_by_name")
	BucketBooks         = []byte("books")
	BucketRevokedTokens = []byte("revoked_tokens")
)

var buckets = [][]byte{BucketUsers, BucketUsersByName, BucketBooks, BucketRevokedTokens}

// Open opens (creating if needed) the database file at path and makes sure
// every bucket exists.
func Open(path string, timeout time.Duration) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("boltdb: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltdb: %w", err)
	}
	return db, nil
}

// Itob encodes v as an 8-byte big endian key so keys sort numerically.
func Itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func Btoi(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
