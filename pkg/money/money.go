// Package money holds currency as an integer count of cents.
//
// Every place a fractional cent would otherwise be kept is rounded
// half-up to the nearest cent. Values handled by the engine are never
// negative, so half-up and half-away-from-zero agree.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrSubCentPrecision = errors.New("money: more than 2 decimal places")
	ErrInvalidFormat    = errors.New("money: invalid amount")
)

// Money is an amount in minor units (cents).
type Money int64

const Zero Money = 0

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// FromCents is a readability helper for literals in tests and fixtures.
func FromCents(c int64) Money { return Money(c) }

// Cents returns the raw minor-unit count.
func (m Money) Cents() int64 { return int64(m) }

func (m Money) Add(o Money) Money { return m + o }
func (m Money) Sub(o Money) Money { return m - o }

func (m Money) IsZero() bool     { return m == 0 }
func (m Money) IsNegative() bool { return m < 0 }
func (m Money) IsPositive() bool { return m > 0 }

// Min returns the smaller of m and o.
func (m Money) Min(o Money) Money {
	if o < m {
		return o
	}
	return m
}

// Max returns the larger of m and o.
func (m Money) Max(o Money) Money {
	if o > m {
		return o
	}
	return m
}

// MulRate multiplies by a decimal factor and rounds to the cent.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return fromDecimalCents(decimal.NewFromInt(int64(m)).Mul(rate))
}

// Split divides m into n equal installments. base is the regular
// installment; last carries the integer-division remainder.
func (m Money) Split(n int) (base, last Money) {
	if n <= 0 {
		return 0, m
	}
	base = m / Money(n)
	last = m - base*Money(n-1)
	return base, last
}

// Decimal returns the amount in currency units, e.g. 966.64.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Money) String() string { return m.Decimal().StringFixed(2) }

// FromDecimal converts a currency-unit decimal to Money, rounding to the cent.
func FromDecimal(d decimal.Decimal) Money {
	return fromDecimalCents(d.Mul(hundred))
}

// FromDecimalExact converts a currency-unit decimal to Money and fails if
// the value carries sub-cent precision or does not fit in int64 cents.
func FromDecimalExact(d decimal.Decimal) (Money, error) {
	cents := d.Mul(hundred)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrSubCentPrecision, d.String())
	}
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidFormat, d.String())
	}
	return Money(cents.IntPart()), nil
}

// Parse reads a decimal currency string such as "50000" or "966.64".
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidFormat
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return FromDecimalExact(d)
}

// MustParse is Parse for fixtures; it panics on bad input.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Sum adds all amounts.
func Sum(ms ...Money) Money {
	var total Money
	for _, m := range ms {
		total += m
	}
	return total
}

// MarshalJSON writes a JSON number with exactly two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// round-half-up on a value already expressed in cents
func fromDecimalCents(c decimal.Decimal) Money {
	return Money(c.Round(0).IntPart())
}
