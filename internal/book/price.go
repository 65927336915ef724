package book

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	priceDecimalPlaces = 2
	priceMaxDigits     = 7

	// priceMaxInput bounds the textual form and priceMaxScale the exponent,
	// so comparing or rounding a parsed price never rescales by more than
	// a few dozen digits.
	priceMaxInput = 64
	priceMaxScale = 64
)

var maxPrice = decimal.New(1, priceMaxDigits-priceDecimalPlaces)

// Price is a fixed point amount with two decimal places. It is rendered in
// JSON as a string such as "150.00" and accepts either a string or a number.
type Price struct {
	decimal.Decimal
}

// ParsePrice parses a decimal string such as "25", "25.5" or "2.55e1".
// Inputs that are too long or whose exponent is out of range fail with
// ErrInvalidPrice before any arithmetic is done on them.
func ParsePrice(s string) (Price, error) {
	if len(s) > priceMaxInput {
		return Price{}, fmt.Errorf("%w: too long", ErrInvalidPrice)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !inScale(d) {
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return Price{d}, nil
}

func inScale(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp <= priceMaxScale && exp >= -priceMaxScale
}

// MustPrice is like ParsePrice but panics on error. Intended for tests and
// fixtures.
func MustPrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Valid reports whether p fits in at most 7 digits with 2 decimal places.
func (p Price) Valid() bool {
	return p.Round(priceDecimalPlaces).Equal(p.Decimal) && p.Abs().LessThan(maxPrice)
}

// Equal compares prices by value, so 15 equals 15.00.
func (p Price) Equal(o Price) bool {
	return p.Decimal.Equal(o.Decimal)
}

func (p Price) String() string {
	return p.StringFixed(priceDecimalPlaces)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return fmt.Errorf("%w: null", ErrInvalidPrice)
	}
	if len(data) > priceMaxInput+2 {
		return fmt.Errorf("%w: too long", ErrInvalidPrice)
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil || !inScale(d) {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, data)
	}
	p.Decimal = d
	return nil
}
