package domain

import (
	"fmt"

	"github.com/sibgate/bankcore/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MinorUnitDigits is the number of fractional digits carried by every monetary
// figure. All currencies modeled here use 2.
const MinorUnitDigits = 2

// RoundMoney rounds a computed figure to the currency's minor-unit precision
// using round-half-up. It is applied once per computed figure; intermediate
// results are never accumulated in unrounded form across periods.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnitDigits)
}

// Money is a fixed-precision decimal amount tagged with a 3-letter currency code.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// NewMoney creates a Money rounded to minor-unit precision.
func NewMoney(amount decimal.Decimal, currencyCode string) Money {
	return Money{Amount: RoundMoney(amount), CurrencyCode: currencyCode}
}

// Add returns m + other. Amounts in different currencies never mix.
func (m Money) Add(other Money) (Money, error) {
	if m.CurrencyCode != other.CurrencyCode {
		return Money{}, fmt.Errorf("%w: cannot add %s to %s", apperrors.ErrCurrencyMismatch, other.CurrencyCode, m.CurrencyCode)
	}
	return Money{Amount: m.Amount.Add(other.Amount), CurrencyCode: m.CurrencyCode}, nil
}

// Sub returns m - other.
func (m Money) Sub(other Money) (Money, error) {
	if m.CurrencyCode != other.CurrencyCode {
		return Money{}, fmt.Errorf("%w: cannot subtract %s from %s", apperrors.ErrCurrencyMismatch, other.CurrencyCode, m.CurrencyCode)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), CurrencyCode: m.CurrencyCode}, nil
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// String serializes the amount with exactly 2 fractional digits, e.g. "500.00 RUB".
func (m Money) String() string {
	return m.Amount.StringFixed(MinorUnitDigits) + " " + m.CurrencyCode
}
