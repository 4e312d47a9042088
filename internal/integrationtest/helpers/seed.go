// Package helpers provides seed helpers used in integration tests.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/accesstokenrepo"
	"github.com/go-petr/pet-bank-payments/internal/accountrepo"
	"github.com/go-petr/pet-bank-payments/internal/cardrepo"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/internal/messagerepo"
	"github.com/go-petr/pet-bank-payments/pkg/dbpkg"
	"github.com/go-petr/pet-bank-payments/pkg/financegen"
	"github.com/go-petr/pet-bank-payments/pkg/passpkg"
	"github.com/go-petr/pet-bank-payments/pkg/randompkg"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var gen = financegen.New(time.Now)

// SeedAccount creates an account of owner with the given balance and currency.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, owner, balance, currency string) domain.Account {
	t.Helper()

	arg := domain.CreateAccountParams{
		ID:       uuid.New(),
		Owner:    owner,
		IBAN:     gen.IBAN(),
		Number:   gen.AccountNumber(),
		SWIFT:    gen.SWIFT(),
		BankName: "Pet Bank",
		Currency: currency,
		Balance:  decimal.RequireFromString(balance),
	}

	account, err := accountrepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return account
}

// SeedAccountWith1000USDBalance creates an account of owner holding 1000 USD.
func SeedAccountWith1000USDBalance(t *testing.T, tx dbpkg.SQLInterface, owner string) domain.Account {
	t.Helper()
	return SeedAccount(t, tx, owner, "1000", "USD")
}

// SeedCard issues an active card for the account expiring expiresIn from now.
func SeedCard(t *testing.T, tx dbpkg.SQLInterface, accountID uuid.UUID, category domain.CardCategory, expiresIn time.Duration) domain.Card {
	t.Helper()

	pinHash, err := passpkg.Hash(gen.PIN())
	if err != nil {
		t.Fatalf("passpkg.Hash() returned error: %v", err)
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)

	arg := domain.CreateCardParams{
		ID:        uuid.New(),
		AccountID: accountID,
		Number:    gen.CardNumber(),
		CVV:       gen.CVV(),
		PINHash:   pinHash,
		Category:  category,
		Type:      domain.CardVisa,
		StartDate: now.AddDate(-1, 0, 0),
		ExpiresAt: now.Add(expiresIn),
	}

	card, err := cardrepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("cardRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return card
}

// SeedMessage stores a notification for recipient about a random payment.
func SeedMessage(t *testing.T, tx dbpkg.SQLInterface, recipient string) domain.Message {
	t.Helper()

	arg := domain.Message{
		ID:        uuid.New(),
		PaymentID: uuid.New(),
		Sender:    domain.SystemSender,
		Recipient: recipient,
		Content:   randompkg.String(20),
	}

	msg, err := messagerepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("messageRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return msg
}

// SeedAccessToken stores an issued token for owner.
func SeedAccessToken(t *testing.T, tx dbpkg.SQLInterface, owner, token string, duration time.Duration) domain.AccessToken {
	t.Helper()

	now := time.Now().UTC()
	arg := domain.AccessToken{
		ID:        uuid.New(),
		Owner:     owner,
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(duration),
	}

	at, err := accesstokenrepo.NewRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accessTokenRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return at
}
