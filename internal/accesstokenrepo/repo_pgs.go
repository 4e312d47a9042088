// Package accesstokenrepo manages repository layer of issued access tokens.
package accesstokenrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/dbpkg"
	"github.com/go-petr/pet-bank-payments/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates access token repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns access token RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const tokenColumns = `id, owner, token, issued_at, expires_at, revoked`

func scanToken(row interface{ Scan(...any) error }) (domain.AccessToken, error) {
	var at domain.AccessToken

	err := row.Scan(&at.ID, &at.Owner, &at.Token, &at.IssuedAt, &at.ExpiresAt, &at.Revoked)

	return at, err
}

const createQuery = `
INSERT INTO
    access_tokens (id, owner, token, issued_at, expires_at)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING ` + tokenColumns

// Create stores the issued token.
func (r *RepoPGS) Create(ctx context.Context, arg domain.AccessToken) (domain.AccessToken, error) {
	l := zerolog.Ctx(ctx)

	at, err := scanToken(r.db.QueryRowContext(ctx, createQuery,
		arg.ID, arg.Owner, arg.Token, arg.IssuedAt, arg.ExpiresAt))
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, token of %s)", arg.Owner)
		return at, errorspkg.ErrInternal
	}

	return at, nil
}

const getByTokenQuery = `
SELECT ` + tokenColumns + `
FROM access_tokens
WHERE token = $1
`

// GetByToken returns the record of the token string.
func (r *RepoPGS) GetByToken(ctx context.Context, token string) (domain.AccessToken, error) {
	l := zerolog.Ctx(ctx)

	at, err := scanToken(r.db.QueryRowContext(ctx, getByTokenQuery, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return at, domain.ErrTokenInvalid
		}

		l.Error().Err(err).Send()

		return at, errorspkg.ErrInternal
	}

	return at, nil
}

const revokeQuery = `
UPDATE access_tokens
SET revoked = true
WHERE token = $1
`

// Revoke marks the token as revoked.
func (r *RepoPGS) Revoke(ctx context.Context, token string) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, revokeQuery, token)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrTokenInvalid
	}

	return nil
}
