package book

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"bookstore/internal/httpx"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrNotAuthenticated is returned for writes by an anonymous requester.
	ErrNotAuthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the requester neither owns the book nor is staff.
	ErrForbidden = errors.New("only the owner or staff may modify this book")
	// ErrInvalidPrice is returned when a price cannot be parsed.
	ErrInvalidPrice = errors.New("invalid price")
)

// Book is a single book record. OwnerID is never serialized: it is assigned
// from the requester on create and cannot be changed afterwards.
type Book struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Price      Price  `json:"price"`
	AuthorName string `json:"author_name"`
	OwnerID    string `json:"-"`
}

// Input is the payload of create and full update requests.
type Input struct {
	Name       string `json:"name" validate:"required,max=255"`
	Price      *Price `json:"price" validate:"required,price"`
	AuthorName string `json:"author_name" validate:"required,max=255"`
}

// Patch is the payload of partial updates; nil fields are left unchanged.
type Patch struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
	Price      *Price  `json:"price" validate:"omitempty,price"`
	AuthorName *string `json:"author_name" validate:"omitempty,min=1,max=255"`
}

func (in *Input) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.AuthorName = strings.TrimSpace(in.AuthorName)
}

func (p *Patch) normalize() {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
	if p.AuthorName != nil {
		author := strings.TrimSpace(*p.AuthorName)
		p.AuthorName = &author
	}
}

func init() {
	httpx.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if p, ok := field.Interface().(Price); ok {
			return p.Decimal.String()
		}
		return nil
	}, Price{})
	httpx.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		p, err := ParsePrice(fl.Field().String())
		return err == nil && p.Valid()
	})
}
