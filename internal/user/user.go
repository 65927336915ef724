package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("username already taken")
)

// User is an account that can own books. Staff users may modify any book.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser holds the fields needed to create an account. Password is plain
// text and is hashed by the service. An empty password creates an account
// that cannot log in with a password.
type NewUser struct {
	Username string
	Email    string
	Password string
	IsStaff  bool
}
