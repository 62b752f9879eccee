// Package core provides money parsing and handling utilities.
//
// Amounts are exact decimals backed by shopspring/decimal so that sums over
// the ledger never drift the way float64 totals do.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount.
type Money struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Money{}

// NewMoney wraps a decimal.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d}
}

// MustMoney parses s and panics on failure. Intended for tests and constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return Money{d: d}
}

// ParseAmount converts user input to a positive Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs,
// exponents, thousands separators and zero are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.5")  -> 12.5, nil
//	ParseAmount("12,50") -> 12.5, nil
//	ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Zero, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Zero, ErrInvalidAmount
	}
	digits := 0
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return Zero, ErrInvalidAmount
			}
			digits++
		}
	}
	if digits == 0 {
		return Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, ErrInvalidAmount
	}
	m := Money{d: d}
	if err := m.Validate(); err != nil {
		return Zero, err
	}
	return m, nil
}

func (m Money) Validate() error {
	if !m.d.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) IsNegative() bool { return m.d.IsNegative() }

// Equal compares by value, so 20 equals 20.00.
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

// Decimal exposes the underlying value.
func (m Money) Decimal() decimal.Decimal { return m.d }

// Float64 returns the nearest float for charting and spreadsheet cells.
// Use Money for calculations.
func (m Money) Float64() float64 { return m.d.InexactFloat64() }

// String renders the shortest exact form, e.g. "12.5" or "20".
func (m Money) String() string { return m.d.String() }

// StringFixed renders with exactly two decimals, e.g. "12.50".
func (m Money) StringFixed() string { return m.d.StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) {
	return m.d.MarshalJSON()
}

// UnmarshalJSON accepts both quoted ("12.5") and bare (12.5) numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return ErrInvalidAmount
	}
	m.d = d
	return nil
}

// Sum adds up a list of amounts.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
