package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount — денежная сумма. Принимает число или числовую строку;
// всё остальное (null, мусор) читается как 0 без ошибки.
type Amount struct {
	decimal.Decimal
}

// NewAmount — сумма из float (удобно в тестах и фабриках).
func NewAmount(v float64) Amount { return Amount{decimal.NewFromFloat(v)} }

// UnmarshalJSON — мягкий разбор суммы.
func (a *Amount) UnmarshalJSON(data []byte) error {
	a.Decimal = decimal.Zero

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
			a.Decimal = d
		}
		return nil
	}

	if d, err := decimal.NewFromString(string(trimmed)); err == nil {
		a.Decimal = d
	}
	return nil
}

// MarshalJSON — сумма пишется числом.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}
