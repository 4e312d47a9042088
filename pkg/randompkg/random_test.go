package randompkg

import (
	"testing"

	"github.com/go-petr/pet-bank-payments/pkg/currencypkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDigits(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		got := Digits(16)

		require.Len(t, got, 16)
		require.NotEqual(t, byte('0'), got[0])

		for _, c := range got {
			require.True(t, c >= '0' && c <= '9', "unexpected rune %q in %q", c, got)
		}
	}

	require.Empty(t, Digits(0))
}

func TestIntBetween(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		got := IntBetween(2, 5)
		require.GreaterOrEqual(t, got, 2)
		require.LessOrEqual(t, got, 5)
	}
}

func TestMoneyAmountBetween(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		got := MoneyAmountBetween(100, 1000)

		require.True(t, got.GreaterThanOrEqual(decimal.NewFromInt(100)))
		require.True(t, got.LessThanOrEqual(decimal.NewFromInt(1000)))
		require.True(t, got.Exponent() >= -2, "amount %v has more than 2 decimals", got)
	}
}

func TestCurrency(t *testing.T) {
	t.Parallel()

	require.True(t, currencypkg.IsSupportedCurrency(Currency()))
}
