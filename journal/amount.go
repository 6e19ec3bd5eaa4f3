package journal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a decimal quantity of a commodity. Quantities use arbitrary
// precision decimals; floating point never enters monetary arithmetic.
type Amount struct {
	Quantity  decimal.Decimal
	Commodity Commodity
}

// NewAmount creates an Amount from a decimal string and commodity name.
func NewAmount(quantity, commodity string) (*Amount, error) {
	q, err := decimal.NewFromString(quantity)
	if err != nil {
		return nil, fmt.Errorf("invalid amount value %q: %w", quantity, err)
	}
	return &Amount{Quantity: q, Commodity: NewCommodity(commodity)}, nil
}

// MustAmount creates an Amount and panics on error. Test helper.
func MustAmount(quantity, commodity string) *Amount {
	a, err := NewAmount(quantity, commodity)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns the sum of two amounts. Both must share a commodity.
func (a Amount) Add(other Amount) (Amount, error) {
	if a.Commodity != other.Commodity {
		return Amount{}, fmt.Errorf("cannot add %s to %s: commodity mismatch",
			other.Commodity, a.Commodity)
	}
	return Amount{Quantity: a.Quantity.Add(other.Quantity), Commodity: a.Commodity}, nil
}

// Neg returns the amount with its quantity negated.
func (a Amount) Neg() Amount {
	return Amount{Quantity: a.Quantity.Neg(), Commodity: a.Commodity}
}

// IsZero reports whether the amount is nil or its quantity is zero.
// Nil-safe so callers can check optional amounts without guarding.
func (a *Amount) IsZero() bool {
	if a == nil {
		return true
	}
	return a.Quantity.IsZero()
}

// IsNegative reports whether the quantity is negative. Nil-safe.
func (a *Amount) IsNegative() bool {
	if a == nil {
		return false
	}
	return a.Quantity.IsNegative()
}

// String returns "<quantity> <commodity>".
func (a *Amount) String() string {
	if a == nil {
		return ""
	}
	return a.Quantity.String() + " " + a.Commodity.Name
}
