// Package financegen generates synthetic banking identifiers for newly opened accounts and cards.
//
// Nothing here follows real IBAN checksum or card PAN algorithms; the values only look alike.
package financegen

import (
	"time"

	"github.com/go-petr/pet-bank-payments/pkg/randompkg"
	"github.com/shopspring/decimal"
)

const (
	minBalance = 100
	maxBalance = 10_000

	minCardYears = 2
	maxCardYears = 5
	cardHistory  = 3
)

// Generator produces account and card data.
type Generator struct {
	now func() time.Time
}

// New returns a Generator that dates cards relative to now.
func New(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}

	return &Generator{now: now}
}

// IBAN returns an IBAN-like identifier, e.g. CZ12CVUT1234567890123456.
func (g *Generator) IBAN() string {
	return "CZ" + randompkg.Digits(2) + "CVUT" + randompkg.Digits(6) + randompkg.Digits(10)
}

// AccountNumber returns a 10 digit account number.
func (g *Generator) AccountNumber() string {
	return randompkg.Digits(10)
}

// SWIFT returns an 8 letter SWIFT-like code.
func (g *Generator) SWIFT() string {
	return randompkg.Upper(8)
}

// CardNumber returns a 16 digit card number.
func (g *Generator) CardNumber() string {
	return randompkg.Digits(16)
}

// CVV returns a 3 digit card verification value.
func (g *Generator) CVV() string {
	return randompkg.Digits(3)
}

// PIN returns a 4 digit card PIN.
func (g *Generator) PIN() string {
	return randompkg.Digits(4)
}

// InitialBalance returns a whole starting balance in [100, 10100).
func (g *Generator) InitialBalance() decimal.Decimal {
	return decimal.NewFromInt(int64(minBalance + randompkg.Intn(maxBalance)))
}

// CardDates returns a start date within the last three calendar years and an expiry date
// two to five years later, on the last day of the start month.
func (g *Generator) CardDates() (start, expires time.Time) {
	now := g.now().UTC()

	from := time.Date(now.Year()-cardHistory, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	days := int(to.Sub(from).Hours() / 24)

	start = from.AddDate(0, 0, int(randompkg.Intn(days+1)))

	year := start.Year() + randompkg.IntBetween(minCardYears, maxCardYears)
	// Day 0 of the next month is the last day of the start month.
	expires = time.Date(year, start.Month()+1, 0, 0, 0, 0, 0, time.UTC)

	return start, expires
}
