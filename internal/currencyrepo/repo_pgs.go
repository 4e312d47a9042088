// Package currencyrepo persists exchange rate snapshots.
package currencyrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/dbpkg"
	"github.com/go-petr/pet-bank-payments/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// ErrNotFound indicates that no snapshot is stored for the pair.
var ErrNotFound = errors.New("currency pair not found")

// RepoPGS facilitates currency data repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns currency RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const getQuery = `
SELECT from_currency, to_currency, rate, fetched_at
FROM currency_data
WHERE from_currency = $1 AND to_currency = $2
`

// Get returns the stored snapshot of the pair.
func (r *RepoPGS) Get(ctx context.Context, from, to string) (domain.CurrencyData, error) {
	l := zerolog.Ctx(ctx)

	var c domain.CurrencyData

	err := r.db.QueryRowContext(ctx, getQuery, from, to).Scan(&c.From, &c.To, &c.Rate, &c.FetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, ErrNotFound
		}

		l.Error().Err(err).Send()

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const upsertQuery = `
INSERT INTO
    currency_data (from_currency, to_currency, rate, fetched_at)
VALUES
    ($1, $2, $3, $4)
ON CONFLICT (from_currency, to_currency)
DO UPDATE SET rate = EXCLUDED.rate, fetched_at = EXCLUDED.fetched_at
WHERE currency_data.fetched_at <= EXCLUDED.fetched_at
`

// Upsert stores the snapshot unless a newer one is already stored.
func (r *RepoPGS) Upsert(ctx context.Context, c domain.CurrencyData) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, upsertQuery, c.From, c.To, c.Rate, c.FetchedAt); err != nil {
		l.Error().Err(err).Msgf("Upsert(ctx, %s/%s)", c.From, c.To)
		return errorspkg.ErrInternal
	}

	return nil
}
