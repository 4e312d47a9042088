// Package tokengate issues, verifies and revokes access tokens.
//
// A token is accepted only if it verifies cryptographically and its issuance
// record exists, is not revoked and has not expired.
package tokengate

import (
	"context"
	"errors"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/tokenpkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by the gate.
//
//go:generate mockgen -source gate.go -destination gate_mock.go -package tokengate
type Repo interface {
	Create(ctx context.Context, arg domain.AccessToken) (domain.AccessToken, error)
	GetByToken(ctx context.Context, token string) (domain.AccessToken, error)
	Revoke(ctx context.Context, token string) error
}

// Gate facilitates access token logic.
type Gate struct {
	maker    tokenpkg.Maker
	repo     Repo
	duration time.Duration
	now      func() time.Time
}

// New returns token Gate.
func New(maker tokenpkg.Maker, repo Repo, duration time.Duration, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}

	return &Gate{
		maker:    maker,
		repo:     repo,
		duration: duration,
		now:      now,
	}
}

// Issue creates a token for the username and stores its record.
func (g *Gate) Issue(ctx context.Context, username string) (string, domain.AccessToken, error) {
	l := zerolog.Ctx(ctx)

	token, payload, err := g.maker.CreateToken(username, g.duration)
	if err != nil {
		l.Error().Err(err).Msgf("CreateToken(%s)", username)
		return "", domain.AccessToken{}, err
	}

	at, err := g.repo.Create(ctx, domain.AccessToken{
		ID:        payload.ID,
		Owner:     username,
		Token:     token,
		IssuedAt:  payload.IssuedAt,
		ExpiresAt: payload.ExpiredAt,
	})
	if err != nil {
		return "", domain.AccessToken{}, err
	}

	return token, at, nil
}

// Verify resolves the token into the calling principal.
func (g *Gate) Verify(ctx context.Context, token string) (domain.Principal, error) {
	payload, err := g.maker.VerifyToken(token)
	if err != nil {
		if errors.Is(err, tokenpkg.ErrExpiredToken) {
			return domain.Principal{}, domain.ErrTokenExpired
		}

		return domain.Principal{}, domain.ErrTokenInvalid
	}

	at, err := g.repo.GetByToken(ctx, token)
	if err != nil {
		return domain.Principal{}, err
	}

	switch {
	case at.Owner != payload.Username:
		return domain.Principal{}, domain.ErrTokenInvalid
	case at.Revoked:
		return domain.Principal{}, domain.ErrTokenRevoked
	case !g.now().Before(at.ExpiresAt):
		return domain.Principal{}, domain.ErrTokenExpired
	}

	return domain.Principal{Username: at.Owner, TokenID: at.ID}, nil
}

// Revoke invalidates the token for all future requests.
func (g *Gate) Revoke(ctx context.Context, token string) error {
	l := zerolog.Ctx(ctx)

	if err := g.repo.Revoke(ctx, token); err != nil {
		return err
	}

	l.Info().Msg("access token revoked")

	return nil
}
