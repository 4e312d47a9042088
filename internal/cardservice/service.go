// Package cardservice manages business logic layer of cards.
package cardservice

import (
	"context"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/errorspkg"
	"github.com/go-petr/pet-bank-payments/pkg/financegen"
	"github.com/go-petr/pet-bank-payments/pkg/passpkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by card service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package cardservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateCardParams) (domain.Card, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Card, error)
	UpdateStatus(ctx context.Context, accountID, id uuid.UUID, status domain.CardStatus) (domain.Card, error)
}

// AccountRepo provides account lookups needed to check card ownership.
type AccountRepo interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Account, error)
}

// Service facilitates card service layer logic.
type Service struct {
	repo     Repo
	accounts AccountRepo
	gen      *financegen.Generator
}

// New returns card Service.
func New(repo Repo, accounts AccountRepo, gen *financegen.Generator) *Service {
	return &Service{repo: repo, accounts: accounts, gen: gen}
}

// Issue creates a card for the owner's account and returns it with its PIN.
// The PIN is only stored hashed and cannot be recovered later.
func (s *Service) Issue(ctx context.Context, owner string, accountID uuid.UUID,
	category domain.CardCategory, cardType domain.CardType,
) (domain.Card, string, error) {
	l := zerolog.Ctx(ctx)

	if err := s.checkOwner(ctx, owner, accountID); err != nil {
		return domain.Card{}, "", err
	}

	if cardType == "" {
		cardType = domain.CardVisa
	}

	pin := s.gen.PIN()

	pinHash, err := passpkg.Hash(pin)
	if err != nil {
		l.Error().Err(err).Msg("passpkg.Hash(pin)")
		return domain.Card{}, "", errorspkg.ErrInternal
	}

	start, expires := s.gen.CardDates()

	card, err := s.repo.Create(ctx, domain.CreateCardParams{
		ID:        uuid.New(),
		AccountID: accountID,
		Number:    s.gen.CardNumber(),
		CVV:       s.gen.CVV(),
		PINHash:   pinHash,
		Category:  category,
		Type:      cardType,
		StartDate: start,
		ExpiresAt: expires,
	})
	if err != nil {
		return domain.Card{}, "", err
	}

	l.Info().Str("card_id", card.ID.String()).Str("account_id", accountID.String()).Msg("card issued")

	return card, pin, nil
}

// List returns cards of the owner's account.
func (s *Service) List(ctx context.Context, owner string, accountID uuid.UUID) ([]domain.Card, error) {
	if err := s.checkOwner(ctx, owner, accountID); err != nil {
		return nil, err
	}

	return s.repo.ListByAccount(ctx, accountID)
}

// SetStatus blocks or unblocks a card of the owner's account.
func (s *Service) SetStatus(ctx context.Context, owner string, accountID, cardID uuid.UUID, status domain.CardStatus) (domain.Card, error) {
	if err := s.checkOwner(ctx, owner, accountID); err != nil {
		return domain.Card{}, err
	}

	card, err := s.repo.UpdateStatus(ctx, accountID, cardID, status)
	if err != nil {
		return domain.Card{}, err
	}

	zerolog.Ctx(ctx).Info().Str("card_id", cardID.String()).Str("status", string(status)).Msg("card status changed")

	return card, nil
}

func (s *Service) checkOwner(ctx context.Context, owner string, accountID uuid.UUID) error {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}

	if account.Owner != owner {
		return domain.ErrInvalidOwner
	}

	return nil
}
