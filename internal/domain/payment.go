package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType selects the settlement strategy.
type PaymentType string

// Payment types.
const (
	CardPayment  PaymentType = "CARD_PAYMENT"
	BankTransfer PaymentType = "BANK_TRANSFER"
)

// FinancialStatus is the settlement status of a payment.
type FinancialStatus string

// Financial statuses. Completed and failed are terminal.
const (
	StatusPending   FinancialStatus = "pending"
	StatusCompleted FinancialStatus = "completed"
	StatusFailed    FinancialStatus = "failed"
)

// IsTerminal reports whether the status can no longer change.
func (s FinancialStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// PurchaseCategory classifies what a payment was spent on.
type PurchaseCategory string

// Purchase categories.
const (
	CategoryGroceries   PurchaseCategory = "GROCERIES"
	CategoryClothing    PurchaseCategory = "CLOTHING"
	CategoryElectronics PurchaseCategory = "ELECTRONICS"
	CategoryCinema      PurchaseCategory = "CINEMA"
	CategoryRestaurant  PurchaseCategory = "RESTAURANT"
	CategoryCafe        PurchaseCategory = "CAFE"
	CategoryStudy       PurchaseCategory = "STUDY"
	CategoryTransport   PurchaseCategory = "TRANSPORT"
	CategoryTravel      PurchaseCategory = "TRAVEL"
	CategorySport       PurchaseCategory = "SPORT"
	CategoryOther       PurchaseCategory = "OTHER"
	CategoryCash        PurchaseCategory = "CASH"
)

// PurchaseCategories holds every known purchase category.
var PurchaseCategories = []PurchaseCategory{
	CategoryGroceries,
	CategoryClothing,
	CategoryElectronics,
	CategoryCinema,
	CategoryRestaurant,
	CategoryCafe,
	CategoryStudy,
	CategoryTransport,
	CategoryTravel,
	CategorySport,
	CategoryOther,
	CategoryCash,
}

// IsValid reports whether the category is known.
func (c PurchaseCategory) IsValid() bool {
	for _, pc := range PurchaseCategories {
		if pc == c {
			return true
		}
	}

	return false
}

// Payment is the record of a settlement attempt.
type Payment struct {
	ID                uuid.UUID        `json:"id"`
	SenderAccountID   uuid.UUID        `json:"sender_account_id"`
	ReceiverAccountID uuid.NullUUID    `json:"receiver_account_id"`
	ReceiverBank      string           `json:"receiver_bank,omitempty"`
	ReceiverIBAN      string           `json:"receiver_iban,omitempty"`
	CardID            uuid.NullUUID    `json:"card_id"`
	Type              PaymentType      `json:"type"`
	Category          PurchaseCategory `json:"category"`
	Amount            decimal.Decimal  `json:"amount"`
	Currency          string           `json:"currency"`
	ConvertedAmount   decimal.Decimal  `json:"converted_amount"`
	ReceiverCurrency  string           `json:"receiver_currency"`
	ExchangeRate      decimal.Decimal  `json:"exchange_rate"`
	Status            FinancialStatus  `json:"status"`
	FailureReason     string           `json:"failure_reason,omitempty"`
	Description       string           `json:"description,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

// PaymentRequest is a validated request to move money.
type PaymentRequest struct {
	SenderAccountID   uuid.UUID
	ReceiverAccountID uuid.NullUUID
	ReceiverBank      string
	ReceiverIBAN      string
	CardID            uuid.NullUUID
	Amount            string
	Currency          string
	Type              PaymentType
	Category          PurchaseCategory
	Description       string
}

// BalanceChange is a compare-and-swap balance update of one account.
type BalanceChange struct {
	AccountID       uuid.UUID
	ExpectedVersion int64
	Delta           decimal.Decimal
}

// SettleParams is the input of the atomic settlement write.
type SettleParams struct {
	Payment Payment
	Changes []BalanceChange
}

// SettleResult is the outcome of a committed settlement.
type SettleResult struct {
	Payment  Payment   `json:"payment"`
	Accounts []Account `json:"-"`
}

// PaymentResult is returned to the caller of a successful payment.
type PaymentResult struct {
	Payment         Payment  `json:"payment"`
	SenderAccount   Account  `json:"sender_account"`
	ReceiverAccount *Account `json:"receiver_account,omitempty"`
}

// ListPaymentsParams is the input data to page through account payments.
type ListPaymentsParams struct {
	AccountID uuid.UUID
	Limit     int32
	Offset    int32
}
