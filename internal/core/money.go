package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used by FormatCurrency when no code is given.
const DefaultCurrency = "USD"

var hundred = decimal.NewFromInt(100)

// maxCents keeps amounts well inside int64 after any arithmetic on them.
const maxCents = (1<<63 - 1) / 100

// ParseDecimalToCents converts a decimal string to cents.
//
// Both dot (12.34) and comma (12,34) separators are accepted; the third
// decimal rounds half-up. Zero, negative and malformed values fail with
// ErrInvalidAmount.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 || strings.ContainsAny(s, "eE") {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Mul(hundred).Round(0)
	if !cents.IsPositive() || cents.GreaterThan(decimal.NewFromInt(maxCents)) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// ParseAmount is ParseDecimalToCents returning Money.
func ParseAmount(s string) (Money, error) {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with two decimals, e.g. "25.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Short renders the amount without trailing zeros, e.g. "25.5" or "1000".
func (m Money) Short() string {
	return m.Decimal().String()
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal.
func (m *Money) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*m = Money{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	cents := d.Mul(hundred).Round(0)
	if cents.Abs().GreaterThan(decimal.NewFromInt(maxCents)) {
		return fmt.Errorf("amount: %w", ErrInvalidAmount)
	}
	m.Cents = cents.IntPart()
	return nil
}

// FormatCurrency renders m in the given ISO currency, e.g. 25.50 USD as "$25.50"
// and 1000 USD as "$1,000.00". An empty or unknown code falls back to USD.
func FormatCurrency(m Money, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || money.GetCurrency(code) == nil {
		code = DefaultCurrency
	}
	return money.New(m.Cents, code).Display()
}
