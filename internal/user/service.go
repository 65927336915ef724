package user

import (
	"context"
	"errors"

	"bookstore/internal/platform/crypto"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	if _, err := s.repo.GetByUsername(ctx, nu.Username); err == nil {
		return User{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	var hashed string
	if nu.Password != "" {
		var err error
		if hashed, err = crypto.HashPassword(nu.Password); err != nil {
			return User{}, err
		}
	}

	newUser := &User{
		Username: nu.Username,
		Email:    nu.Email,
		Password: hashed,
		IsStaff:  nu.IsStaff,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return User{}, err
	}
	return *newUser, nil
}

// FindOrCreate returns the user named username, creating a password-less
// account when there is none. It is used for logins through an external
// identity provider.
func (s *Service) FindOrCreate(ctx context.Context, username, email string) (User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	u, err = s.Register(ctx, NewUser{Username: username, Email: email})
	if errors.Is(err, ErrAlreadyExists) {
		// Lost a race with a concurrent first login.
		return s.repo.GetByUsername(ctx, username)
	}
	return u, err
}

// GetByID returns ErrNotFound for an empty id without touching storage.
func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	if id == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// IsStaff reports the current staff role of a user. A user that no longer
// exists is not staff.
func (s *Service) IsStaff(ctx context.Context, id string) (bool, error) {
	u, err := s.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.IsStaff, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	if username == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByUsername(ctx, username)
}
