package book

import (
	"context"
)

// StaffLookup reports whether a user currently holds the staff role.
type StaffLookup interface {
	IsStaff(ctx context.Context, userID string) (bool, error)
}

// Service provides book-related business logic and enforces the ownership
// rule on every write.
type Service struct {
	repo  Repository
	staff StaffLookup
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithStaffLookup confirms staff claims against l before a non-owner write,
// so a revoked role applies before the caller's token expires.
func WithStaffLookup(l StaffLookup) ServiceOption {
	return func(s *Service) { s.staff = l }
}

// NewService creates a new book service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the books matching the query.
func (s *Service) List(ctx context.Context, actor Actor, q Query) ([]Book, error) {
	if err := CanRead(actor); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, q)
}

// Get returns a book by its id.
func (s *Service) Get(ctx context.Context, actor Actor, id int64) (Book, error) {
	if err := CanRead(actor); err != nil {
		return Book{}, err
	}
	return s.repo.Get(ctx, id)
}

// Create stores a new book owned by the actor.
func (s *Service) Create(ctx context.Context, actor Actor, in Input) (Book, error) {
	if err := CanCreate(actor); err != nil {
		return Book{}, err
	}
	b := Book{
		Name:       in.Name,
		Price:      *in.Price,
		AuthorName: in.AuthorName,
		OwnerID:    actor.UserID,
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Update replaces every editable field of the book.
func (s *Service) Update(ctx context.Context, actor Actor, id int64, in Input) (Book, error) {
	return s.modify(ctx, actor, id, func(b *Book) {
		b.Name = in.Name
		b.Price = *in.Price
		b.AuthorName = in.AuthorName
	})
}

// Patch changes only the fields present in p.
func (s *Service) Patch(ctx context.Context, actor Actor, id int64, p Patch) (Book, error) {
	return s.modify(ctx, actor, id, func(b *Book) {
		if p.Name != nil {
			b.Name = *p.Name
		}
		if p.Price != nil {
			b.Price = *p.Price
		}
		if p.AuthorName != nil {
			b.AuthorName = *p.AuthorName
		}
	})
}

// Delete removes the book.
func (s *Service) Delete(ctx context.Context, actor Actor, id int64) error {
	// Anonymous writes are refused before the lookup so they never learn
	// whether an id exists.
	if !actor.Authenticated() {
		return ErrNotAuthenticated
	}
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, b); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) modify(ctx context.Context, actor Actor, id int64, apply func(*Book)) (Book, error) {
	if !actor.Authenticated() {
		return Book{}, ErrNotAuthenticated
	}
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return Book{}, err
	}
	if err := s.authorize(ctx, actor, b); err != nil {
		return Book{}, err
	}

	owner := b.OwnerID
	apply(&b)
	b.OwnerID = owner

	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// authorize applies CanModify. A staff claim only matters for books the actor
// does not own, and only then is it checked against the current role.
func (s *Service) authorize(ctx context.Context, actor Actor, b Book) error {
	if actor.Staff && actor.UserID != b.OwnerID && s.staff != nil {
		staff, err := s.staff.IsStaff(ctx, actor.UserID)
		if err != nil {
			return err
		}
		actor.Staff = staff
	}
	return CanModify(actor, b)
}
