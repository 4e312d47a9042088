// Package randompkg provides functionality for generating random applications common items.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/go-petr/pet-bank-payments/pkg/currencypkg"
	"github.com/shopspring/decimal"
)

const (
	alphabet      = "abcdefghijklmnopqrstuvwxyz"
	upperAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits        = "0123456789"
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Float64 is a shortcut for generating a random float between 0 and 1 using crypto/rand.
func Float64() float64 {
	return float64(Intn(1<<32)) / (1 << 32)
}

// IntBetween generates a random integer in [min, max].
func IntBetween(min, max int) int {
	return min + int(Intn(max-min+1))
}

// FloatBetween generates a random decimal number between min and max rounded to 2 decimals.
func FloatBetween(min, max float64) float64 {
	numInRange := min + Float64()*(max-min)
	return math.Floor(numInRange*100) / 100
}

func fromAlphabet(n int, chars string) string {
	var sb strings.Builder

	k := len(chars)

	for i := 0; i < n; i++ {
		_ = sb.WriteByte(chars[Intn(k)]) // The returned err is always nil.
	}

	return sb.String()
}

// String generates a random lowercase string of length n.
func String(n int) string {
	return fromAlphabet(n, alphabet)
}

// Upper generates a random uppercase string of length n.
func Upper(n int) string {
	return fromAlphabet(n, upperAlphabet)
}

// Digits generates a random digit string of length n that never starts with zero.
func Digits(n int) string {
	if n <= 0 {
		return ""
	}

	return fmt.Sprint(IntBetween(1, 9)) + fromAlphabet(n-1, digits)
}

// Owner generates a random owner name.
func Owner() string {
	return String(6)
}

// MoneyAmountBetween generates a random amount of money between min and max rounded to 2 decimals.
func MoneyAmountBetween(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(FloatBetween(min, max))
}

// Currency generates a random supported currency code.
func Currency() string {
	currencies := currencypkg.SupportedCurrencies
	return currencies[Intn(len(currencies))]
}

// Email generates a random email.
func Email() string {
	return fmt.Sprintf("%s@email.com", String(10))
}
