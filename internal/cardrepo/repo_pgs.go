// Package cardrepo manages repository layer of cards.
package cardrepo

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

// RepoPGS facilitates card repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns card RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const cardColumns = `id, account_id, number, cvv, pin_hash, category, type, status, start_date, expires_at, created_at`

func scanCard(row interface{ Scan(...any) error }) (domain.Card, error) {
	var c domain.Card

	err := row.Scan(
		&c.ID,
		&c.AccountID,
		&c.Number,
		&c.CVV,
		&c.PINHash,
		&c.Category,
		&c.Type,
		&c.Status,
		&c.StartDate,
		&c.ExpiresAt,
		&c.CreatedAt,
	)

	return c, err
}

const createQuery = `
INSERT INTO
    cards (id, account_id, number, cvv, pin_hash, category, type, start_date, expires_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + cardColumns

// Create creates the card and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateCardParams) (domain.Card, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.ID,
		arg.AccountID,
		arg.Number,
		arg.CVV,
		arg.PINHash,
		arg.Category,
		arg.Type,
		arg.StartDate,
		arg.ExpiresAt,
	)

	c, err := scanCard(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, account %v)", arg.AccountID)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "cards_account_id_fkey" {
			return c, domain.ErrAccountNotFound
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const getQuery = `
SELECT ` + cardColumns + `
FROM cards
WHERE id = $1
`

// Get returns the card with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Card, error) {
	l := zerolog.Ctx(ctx)

	c, err := scanCard(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, domain.ErrCardNotFound
		}

		l.Error().Err(err).Send()

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const listByAccountQuery = `
SELECT ` + cardColumns + `
FROM cards
WHERE account_id = $1
ORDER BY created_at, id
`

// ListByAccount returns all cards of the account.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Card, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByAccountQuery, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Card{}

	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const updateStatusQuery = `
UPDATE cards
SET status = $3
WHERE id = $1 AND account_id = $2
RETURNING ` + cardColumns

// UpdateStatus sets the status of the account's card and returns the changed card.
func (r *RepoPGS) UpdateStatus(ctx context.Context, accountID, id uuid.UUID, status domain.CardStatus) (domain.Card, error) {
	l := zerolog.Ctx(ctx)

	c, err := scanCard(r.db.QueryRowContext(ctx, updateStatusQuery, id, accountID, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, domain.ErrCardNotFound
		}

		l.Error().Err(err).Send()

		return c, errorspkg.ErrInternal
	}

	return c, nil
}
