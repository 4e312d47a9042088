package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SystemSender is the sender of all settlement notifications.
const SystemSender = "system"

// Message is a user-facing notification.
type Message struct {
	ID        uuid.UUID `json:"id"`
	PaymentID uuid.UUID `json:"payment_id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ListMessagesParams is the input data to page through messages of a recipient.
type ListMessagesParams struct {
	Recipient string
	Limit     int32
	Offset    int32
}

// SettlementEvent is published after a payment settles. PaymentID is the idempotency key.
type SettlementEvent struct {
	PaymentID         uuid.UUID       `json:"payment_id"`
	SenderAccountID   uuid.UUID       `json:"sender_account_id"`
	ReceiverAccountID uuid.NullUUID   `json:"receiver_account_id"`
	SenderOwner       string          `json:"sender_owner"`
	ReceiverOwner     string          `json:"receiver_owner,omitempty"`
	ReceiverBank      string          `json:"receiver_bank,omitempty"`
	Type              PaymentType     `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	ConvertedAmount   decimal.Decimal `json:"converted_amount"`
	ReceiverCurrency  string          `json:"receiver_currency"`
	Status            FinancialStatus `json:"status"`
	Timestamp         time.Time       `json:"timestamp"`
}
