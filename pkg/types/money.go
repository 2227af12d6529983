package types

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Money wraps a decimal amount and renders it on the wire as a quoted
// string with exactly two fractional digits, e.g. "12.99".
type Money struct {
	decimal.Decimal
}

// NewMoney builds a Money from a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MarshalJSON renders the amount as a quoted two decimal place string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.StringFixed(2))), nil
}

// UnmarshalJSON accepts either a quoted string or a bare JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		unquoted, err := strconv.Unquote(string(trimmed))
		if err != nil {
			return fmt.Errorf("parse money: %w", err)
		}
		parsed, err := decimal.NewFromString(unquoted)
		if err != nil {
			return fmt.Errorf("parse money: %w", err)
		}
		m.Decimal = parsed
		return nil
	}
	parsed, err := decimal.NewFromString(string(trimmed))
	if err != nil {
		return fmt.Errorf("parse money: %w", err)
	}
	m.Decimal = parsed
	return nil
}
