// Package messageservice turns settlement events into user notifications.
package messageservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by message service.
//
//go:generate mockgen -source service.go -destination service_mock.go -package messageservice
type Repo interface {
	Create(ctx context.Context, m domain.Message) (domain.Message, error)
	List(ctx context.Context, arg domain.ListMessagesParams) ([]domain.Message, error)
	MarkRead(ctx context.Context, id uuid.UUID, recipient string) (domain.Message, error)
}

// Service facilitates message service layer logic.
type Service struct {
	repo Repo
}

// New returns message Service.
func New(repo Repo) *Service {
	return &Service{repo: repo}
}

// OnSettlement stores the notification of a settled payment. Replays of an event are no-ops.
func (s *Service) OnSettlement(ctx context.Context, e domain.SettlementEvent) error {
	l := zerolog.Ctx(ctx)

	m := domain.Message{
		ID:        uuid.New(),
		PaymentID: e.PaymentID,
		Sender:    domain.SystemSender,
		Recipient: recipient(e),
		Content:   summary(e),
	}

	if _, err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrMessageExists) {
			l.Debug().Str("payment_id", e.PaymentID.String()).Msg("duplicate settlement event")
			return nil
		}

		return err
	}

	l.Info().Str("payment_id", e.PaymentID.String()).Str("recipient", m.Recipient).Msg("notification stored")

	return nil
}

func recipient(e domain.SettlementEvent) string {
	if e.ReceiverOwner != "" {
		return e.ReceiverOwner
	}

	return e.SenderOwner
}

func summary(e domain.SettlementEvent) string {
	if e.ReceiverOwner == "" {
		return fmt.Sprintf("Your transfer of %s %s to %s was %s.",
			e.Amount.StringFixed(2), e.Currency, e.ReceiverBank, e.Status)
	}

	what := "a transfer"
	if e.Type == domain.CardPayment {
		what = "a card payment"
	}

	return fmt.Sprintf("You received %s of %s %s from %s.",
		what, e.ConvertedAmount.StringFixed(2), e.ReceiverCurrency, e.SenderOwner)
}

// List returns a page of the principal's messages, newest first.
func (s *Service) List(ctx context.Context, principal domain.Principal, pageSize, pageID int32) ([]domain.Message, error) {
	return s.repo.List(ctx, domain.ListMessagesParams{
		Recipient: principal.Username,
		Limit:     pageSize,
		Offset:    (pageID - 1) * pageSize,
	})
}

// MarkRead flags the principal's message as read.
func (s *Service) MarkRead(ctx context.Context, principal domain.Principal, id uuid.UUID) (domain.Message, error) {
	return s.repo.MarkRead(ctx, id, principal.Username)
}
