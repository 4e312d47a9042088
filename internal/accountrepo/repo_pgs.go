// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/dbpkg"
	"github.com/go-petr/pet-bank-payments/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const accountColumns = `id, owner, iban, number, swift, bank_name, currency, balance, status, version, created_at`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Owner,
		&a.IBAN,
		&a.Number,
		&a.SWIFT,
		&a.BankName,
		&a.Currency,
		&a.Balance,
		&a.Status,
		&a.Version,
		&a.CreatedAt,
	)

	return a, err
}

const createQuery = `
INSERT INTO
    accounts (id, owner, iban, number, swift, bank_name, currency, balance)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + accountColumns

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.ID,
		arg.Owner,
		arg.IBAN,
		arg.Number,
		arg.SWIFT,
		arg.BankName,
		arg.Currency,
		arg.Balance,
	)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "accounts_balance_check" {
			return a, domain.ErrNegativeAmount
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE owner = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3
`

// List returns the specified number of accounts for the given owner.
func (r *RepoPGS) List(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, owner, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const updateStatusQuery = `
UPDATE accounts
SET status = $2, version = version + 1
WHERE id = $1
RETURNING ` + accountColumns

// UpdateStatus sets the account status and returns the changed account.
func (r *RepoPGS) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, updateStatusQuery, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const applyBalanceChangeQuery = `
UPDATE accounts
SET balance = balance + $3, version = version + 1
WHERE id = $1 AND version = $2
RETURNING ` + accountColumns

// ApplyBalanceChange adds delta to the balance if the account still has the expected version.
// A version mismatch yields domain.ErrConcurrentModification and a negative result balance
// yields domain.ErrInsufficientFunds.
func (r *RepoPGS) ApplyBalanceChange(ctx context.Context, arg domain.BalanceChange) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, applyBalanceChangeQuery,
		arg.AccountID,
		arg.ExpectedVersion,
		arg.Delta,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrConcurrentModification
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "accounts_balance_check" {
			return a, domain.ErrInsufficientFunds
		}

		l.Error().Err(err).Msgf("ApplyBalanceChange(ctx, %+v)", arg)

		return a, errorspkg.ErrInternal
	}

	return a, nil
}
