package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCardCategoryPermits(t *testing.T) {
	t.Parallel()

	for _, pc := range PurchaseCategories {
		require.True(t, CardDebit.Permits(pc), "debit must permit %s", pc)
	}

	require.True(t, CardCredit.Permits(CategoryGroceries))
	require.False(t, CardCredit.Permits(CategoryCash))
	require.False(t, CardCategory("prepaid").Permits(CategoryGroceries))
}

func TestCardExpiredAt(t *testing.T) {
	t.Parallel()

	card := Card{ExpiresAt: time.Date(2026, time.October, 31, 0, 0, 0, 0, time.UTC)}

	require.False(t, card.ExpiredAt(time.Date(2026, time.October, 31, 23, 59, 0, 0, time.UTC)))
	require.True(t, card.ExpiredAt(time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)))
	require.False(t, card.ExpiredAt(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCurrencyDataStaleAt(t *testing.T) {
	t.Parallel()

	fetched := time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)
	rate := CurrencyData{FetchedAt: fetched}

	require.False(t, rate.StaleAt(fetched.Add(time.Hour), time.Hour))
	require.True(t, rate.StaleAt(fetched.Add(time.Hour+time.Second), time.Hour))
}

func TestFinancialStatusIsTerminal(t *testing.T) {
	t.Parallel()

	require.False(t, StatusPending.IsTerminal())
	require.True(t, StatusCompleted.IsTerminal())
	require.True(t, StatusFailed.IsTerminal())
}

func TestPurchaseCategoryIsValid(t *testing.T) {
	t.Parallel()

	require.True(t, CategoryTravel.IsValid())
	require.False(t, PurchaseCategory("GAMBLING").IsValid())
}
