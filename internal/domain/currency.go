package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyData is an exchange rate snapshot for a currency pair.
type CurrencyData struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// StaleAt reports whether the rate is older than ttl at now.
func (c CurrencyData) StaleAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.FetchedAt) > ttl
}
