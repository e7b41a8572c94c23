package domain_test

import (
	"testing"

	"github.com/forye/checkout-gateway/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("truncates toward zero, never up", func(t *testing.T) {
		cases := []struct {
			in   string
			want string
		}{
			{"10.999", "10.99"},
			{"19.999", "19.99"},
			{"10.991", "10.99"},
			{"10.99", "10.99"},
			{"10.9", "10.90"},
			{"10", "10.00"},
			{"0.005", "0.00"},
			{"123.456789", "123.45"},
		}

		for _, tc := range cases {
			price, err := decimal.NewFromString(tc.in)
			require.NoError(t, err)

			money, err := domain.NewMoney(price)
			require.NoError(t, err)
			assert.Equal(t, tc.want, money.Value(), "input %s", tc.in)
			assert.Equal(t, domain.SettlementCurrency, money.Currency)
		}
	})

	t.Run("truncation is idempotent", func(t *testing.T) {
		price, err := decimal.NewFromString("10.999")
		require.NoError(t, err)

		once, err := domain.NewMoney(price)
		require.NoError(t, err)

		reparsed, err := decimal.NewFromString(once.Value())
		require.NoError(t, err)

		twice, err := domain.NewMoney(reparsed)
		require.NoError(t, err)

		assert.Equal(t, once.Value(), twice.Value())
	})

	t.Run("rejects zero and negative amounts", func(t *testing.T) {
		_, err := domain.NewMoney(decimal.Zero)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)

		_, err = domain.NewMoney(decimal.NewFromFloat(-1.50))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}
