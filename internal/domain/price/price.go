// Package price converts between decimal prices and the fixed two-place
// strings kept at rest.
package price

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fraction digits stored.
const Places = 2

// Accepted magnitudes. A decimal's exponent is bounded before any
// arithmetic, since rounding or comparing rescales to a shared exponent and
// a value like 1e200000000 would build a ten-million-word integer.
const (
	MinExponent = -(Places + 6)
	MaxExponent = 12
)

// MaxPrice is the largest accepted absolute value.
var MaxPrice = decimal.New(1, MaxExponent)

// ErrOutOfRange is returned by CheckRange.
var ErrOutOfRange = errors.New("price out of range")

// CheckRange rejects decimals too large, or too finely divided, to be a
// price. It does no rescaling itself.
func CheckRange(d decimal.Decimal) error {
	if exp := d.Exponent(); exp < MinExponent || exp > MaxExponent {
		return ErrOutOfRange
	}
	if d.Abs().GreaterThan(MaxPrice) {
		return ErrOutOfRange
	}
	return nil
}

// Encode formats d with exactly two fraction digits, rounding half away from
// zero at the third digit.
func Encode(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Decode parses a stored price. It checks the range but not the sign.
func Decode(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if err := CheckRange(d); err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return d, nil
}

// Canonical rounds d to the stored precision.
func Canonical(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Total is an exact running sum of prices.
type Total struct {
	sum decimal.Decimal
}

// Add accumulates d.
func (t *Total) Add(d decimal.Decimal) {
	t.sum = t.sum.Add(d)
}

// Value returns the sum so far.
func (t *Total) Value() decimal.Decimal {
	return t.sum
}

// String returns the encoded sum.
func (t *Total) String() string {
	return Encode(t.sum)
}
