// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/currencypkg"
	"github.com/go-petr/pet-bank-payments/pkg/financegen"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Account, error)
	List(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo     Repo
	gen      *financegen.Generator
	bankName string
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo, gen *financegen.Generator, bankName string) *Service {
	return &Service{repo: ar, gen: gen, bankName: bankName}
}

// Create opens an account in the given currency with generated identifiers and a starting balance.
func (s *Service) Create(ctx context.Context, owner, currency string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	if !currencypkg.IsSupportedCurrency(currency) {
		return domain.Account{}, domain.ErrUnsupportedCurrency
	}

	account, err := s.repo.Create(ctx, domain.CreateAccountParams{
		ID:       uuid.New(),
		Owner:    owner,
		IBAN:     s.gen.IBAN(),
		Number:   s.gen.AccountNumber(),
		SWIFT:    s.gen.SWIFT(),
		BankName: s.bankName,
		Currency: currency,
		Balance:  s.gen.InitialBalance(),
	})
	if err != nil {
		return account, err
	}

	l.Info().Str("account_id", account.ID.String()).Str("currency", currency).Msg("account opened")

	return account, nil
}

// Get returns the account if it belongs to owner.
func (s *Service) Get(ctx context.Context, owner string, id uuid.UUID) (domain.Account, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return account, err
	}

	if account.Owner != owner {
		return domain.Account{}, domain.ErrInvalidOwner
	}

	return account, nil
}

// List returns accounts that are owned by the given user.
func (s *Service) List(ctx context.Context, owner string, pageSize, pageID int32) ([]domain.Account, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	return s.repo.List(ctx, owner, limit, offset)
}

// SetStatus blocks or unblocks the owner's account. Setting the current status is a no-op.
func (s *Service) SetStatus(ctx context.Context, owner string, id uuid.UUID, status domain.AccountStatus) (domain.Account, error) {
	account, err := s.Get(ctx, owner, id)
	if err != nil {
		return account, err
	}

	if account.Status == status {
		return account, nil
	}

	account, err = s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Account{}, err
	}

	zerolog.Ctx(ctx).Info().Str("account_id", id.String()).Str("status", string(status)).Msg("account status changed")

	return account, nil
}
