package book

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"

	"bookstore/internal/platform/boltdb"
)

// boltRecord is the stored form of a Book. Book hides its owner from JSON,
// so it cannot be stored as is.
type boltRecord struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	AuthorName string `json:"author_name"`
	OwnerID    string `json:"owner_id"`
}

func toRecord(b Book) boltRecord {
	return boltRecord{
		ID:         b.ID,
		Name:       b.Name,
		Price:      b.Price.String(),
		AuthorName: b.AuthorName,
		OwnerID:    b.OwnerID,
	}
}

func (rec boltRecord) book() (Book, error) {
	p, err := ParsePrice(rec.Price)
	if err != nil {
		return Book{}, err
	}
	return Book{
		ID:         rec.ID,
		Name:       rec.Name,
		Price:      p,
		AuthorName: rec.AuthorName,
		OwnerID:    rec.OwnerID,
	}, nil
}

// BoltRepo stores books in the books bucket keyed by their big endian id.
type BoltRepo struct {
	db *bolt.DB
}

func NewBoltRepo(db *bolt.DB) *BoltRepo {
	return &BoltRepo{db: db}
}

// List scans the whole bucket and applies q in memory.
func (r *BoltRepo) List(ctx context.Context, q Query) ([]Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var books []Book
	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(boltdb.BucketBooks).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			b, err := decodeBook(v)
			if err != nil {
				return err
			}
			books = append(books, b)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return q.Apply(books), nil
}

func (r *BoltRepo) Get(ctx context.Context, id int64) (Book, error) {
	if err := ctx.Err(); err != nil {
		return Book{}, err
	}

	var b Book
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltdb.BucketBooks).Get(boltdb.Itob(uint64(id)))
		if v == nil {
			return ErrNotFound
		}
		var err error
		b, err = decodeBook(v)
		return err
	})
	return b, err
}

func (r *BoltRepo) Create(ctx context.Context, b *Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(boltdb.BucketUsers).Get([]byte(b.OwnerID)) == nil {
			return ErrNotAuthenticated
		}

		bucket := tx.Bucket(boltdb.BucketBooks)
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("next book id: %w", err)
		}
		b.ID = int64(seq)
		return putBook(bucket, *b)
	})
}

func (r *BoltRepo) Update(ctx context.Context, b *Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltdb.BucketBooks)
		v := bucket.Get(boltdb.Itob(uint64(b.ID)))
		if v == nil {
			return ErrNotFound
		}
		stored, err := decodeBook(v)
		if err != nil {
			return err
		}
		stored.Name = b.Name
		stored.Price = b.Price
		stored.AuthorName = b.AuthorName
		return putBook(bucket, stored)
	})
}

func (r *BoltRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltdb.BucketBooks)
		key := boltdb.Itob(uint64(id))
		if bucket.Get(key) == nil {
			return ErrNotFound
		}
		return bucket.Delete(key)
	})
}

func putBook(bucket *bolt.Bucket, b Book) error {
	data, err := json.Marshal(toRecord(b))
	if err != nil {
		return err
	}
	return bucket.Put(boltdb.Itob(uint64(b.ID)), data)
}

func decodeBook(v []byte) (Book, error) {
	var rec boltRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return Book{}, fmt.Errorf("decode book: %w", err)
	}
	return rec.book()
}
