package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Book, error)
	Get(ctx context.Context, id int64) (Book, error)
	// Create stores b and sets its ID.
	Create(ctx context.Context, b *Book) error
	// Update overwrites name, price and author name. The owner is never changed.
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id int64) error
}
