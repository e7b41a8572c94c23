package domain

import (
	"github.com/shopspring/decimal"
)

// SettlementCurrency is the single currency this gateway settles in.
const SettlementCurrency = "USD"

// Money is a settlement-currency amount normalized to exactly two fractional
// digits. Extra precision is truncated toward zero, never rounded up: the
// provider rejects amounts with more than two decimals, and rounding up would
// charge the payer more than the merchant priced.
type Money struct {
	Currency string
	amount   decimal.Decimal
}

func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.Sign() <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{
		Currency: SettlementCurrency,
		amount:   amount.Truncate(2),
	}, nil
}

// Value renders the amount the way the provider expects it, e.g. "19.99".
func (m Money) Value() string {
	return m.amount.StringFixed(2)
}
