// Package paymentstrategy selects and runs the authorization rules of a payment type.
package paymentstrategy

import (
	"context"
	"strings"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CardRepo provides card lookups needed by card payments.
//
//go:generate mockgen -source strategy.go -destination strategy_mock.go -package paymentstrategy
type CardRepo interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Card, error)
}

// Process authorizes a payment of one type.
type Process interface {
	Execute(ctx context.Context, pc PaymentContext) (Approval, error)
}

// PaymentContext carries everything a strategy may inspect. Strategies run before
// any account is loaded, so they see the request only.
type PaymentContext struct {
	Request domain.PaymentRequest
}

// Approval is the outcome of a successful authorization.
type Approval struct {
	Card     *domain.Card
	External bool
}

// Factory resolves the strategy of a payment type.
type Factory struct {
	card     *CardPayment
	transfer *BankTransferPayment
}

// NewFactory returns Factory.
func NewFactory(cards CardRepo, supportedBanks []string, now func() time.Time) *Factory {
	return &Factory{
		card:     &CardPayment{cards: cards, now: now},
		transfer: NewBankTransferPayment(supportedBanks),
	}
}

// Resolve returns the strategy for the payment type.
func (f *Factory) Resolve(t domain.PaymentType) (Process, error) {
	switch t {
	case domain.CardPayment:
		return f.card, nil
	case domain.BankTransfer:
		return f.transfer, nil
	default:
		return nil, domain.ErrUnsupportedPaymentType
	}
}

// CardPayment authorizes payments made with a card of the sender account.
type CardPayment struct {
	cards CardRepo
	now   func() time.Time
}

// Execute checks ownership, expiry, status and category policy of the card in that order.
func (p *CardPayment) Execute(ctx context.Context, pc PaymentContext) (Approval, error) {
	l := zerolog.Ctx(ctx)

	if !pc.Request.CardID.Valid {
		return Approval{}, domain.ErrCardNotFound
	}

	if !pc.Request.ReceiverAccountID.Valid {
		return Approval{}, domain.ErrAccountNotFound
	}

	card, err := p.cards.Get(ctx, pc.Request.CardID.UUID)
	if err != nil {
		return Approval{}, err
	}

	if card.AccountID != pc.Request.SenderAccountID {
		l.Info().Str("card_id", card.ID.String()).Msg("card does not belong to sender account")
		return Approval{}, domain.ErrCardNotFound
	}

	if card.ExpiredAt(p.now()) {
		return Approval{}, domain.ErrCardExpired
	}

	if card.Status != domain.CardActive {
		return Approval{}, domain.ErrCardInactive
	}

	if !card.Category.Permits(pc.Request.Category) {
		return Approval{}, domain.ErrCategoryNotPermitted
	}

	return Approval{Card: &card}, nil
}

// BankTransferPayment authorizes transfers to an internal account or to a supported bank.
type BankTransferPayment struct {
	banks map[string]struct{}
}

// NewBankTransferPayment returns BankTransferPayment accepting the given external banks.
func NewBankTransferPayment(supportedBanks []string) *BankTransferPayment {
	banks := make(map[string]struct{}, len(supportedBanks))
	for _, b := range supportedBanks {
		banks[normalizeBank(b)] = struct{}{}
	}

	return &BankTransferPayment{banks: banks}
}

func normalizeBank(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Execute accepts an internal receiver or an external one at a supported bank.
func (p *BankTransferPayment) Execute(ctx context.Context, pc PaymentContext) (Approval, error) {
	if pc.Request.ReceiverAccountID.Valid {
		return Approval{}, nil
	}

	if pc.Request.ReceiverBank == "" || pc.Request.ReceiverIBAN == "" {
		return Approval{}, domain.ErrAccountNotFound
	}

	if _, ok := p.banks[normalizeBank(pc.Request.ReceiverBank)]; !ok {
		zerolog.Ctx(ctx).Info().Str("bank", pc.Request.ReceiverBank).Msg("transfer to unsupported bank")
		return Approval{}, domain.ErrUnsupportedBank
	}

	return Approval{External: true}, nil
}
