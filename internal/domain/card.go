package domain

import (
	"time"

	"github.com/google/uuid"
)

// CardCategory tells debit cards from credit cards.
type CardCategory string

// Card categories.
const (
	CardDebit  CardCategory = "debit"
	CardCredit CardCategory = "credit"
)

// Permits reports whether a card of this category may pay for the purchase category.
func (c CardCategory) Permits(pc PurchaseCategory) bool {
	switch c {
	case CardDebit:
		return true
	case CardCredit:
		return pc != CategoryCash
	default:
		return false
	}
}

// CardType is the card network.
type CardType string

// Card types.
const (
	CardVisa       CardType = "VISA"
	CardMastercard CardType = "MASTERCARD"
)

// CardStatus is the lifecycle status of a card.
type CardStatus string

// Card statuses.
const (
	CardActive  CardStatus = "active"
	CardBlocked CardStatus = "blocked"
)

// Card is a payment card owned by an account.
type Card struct {
	ID        uuid.UUID    `json:"id"`
	AccountID uuid.UUID    `json:"account_id"`
	Number    string       `json:"number"`
	CVV       string       `json:"-"`
	PINHash   string       `json:"-"`
	Category  CardCategory `json:"category"`
	Type      CardType     `json:"type"`
	Status    CardStatus   `json:"status"`
	StartDate time.Time    `json:"start_date"`
	ExpiresAt time.Time    `json:"expires_at"`
	CreatedAt time.Time    `json:"created_at"`
}

// ExpiredAt reports whether the card is expired at t. A card is usable through its expiry day.
func (c Card) ExpiredAt(t time.Time) bool {
	y, m, d := c.ExpiresAt.Date()
	lastDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	return !t.UTC().Before(lastDay.AddDate(0, 0, 1))
}

// CreateCardParams is the input data to issue a card.
type CreateCardParams struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Number    string
	CVV       string
	PINHash   string
	Category  CardCategory
	Type      CardType
	StartDate time.Time
	ExpiresAt time.Time
}
