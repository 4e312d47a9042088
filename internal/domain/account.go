// Package domain provides definitions of all entities.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

// Account statuses.
const (
	AccountActive  AccountStatus = "active"
	AccountBlocked AccountStatus = "blocked"
)

// Account holds user balance data for a specific currency.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	Owner     string          `json:"owner"`
	IBAN      string          `json:"iban"`
	Number    string          `json:"number"`
	SWIFT     string          `json:"swift"`
	BankName  string          `json:"bank_name"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Status    AccountStatus   `json:"status"`
	Version   int64           `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsActive reports whether the account can take part in payments.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}

// CreateAccountParams is the input data to open an account.
type CreateAccountParams struct {
	ID       uuid.UUID
	Owner    string
	IBAN     string
	Number   string
	SWIFT    string
	BankName string
	Currency string
	Balance  decimal.Decimal
}
