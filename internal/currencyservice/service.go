// Package currencyservice converts money between currencies using cached exchange rates.
package currencyservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/currencyrepo"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/currencypkg"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Repo persists rate snapshots.
//
//go:generate mockgen -source service.go -destination service_mock.go -package currencyservice
type Repo interface {
	Get(ctx context.Context, from, to string) (domain.CurrencyData, error)
	Upsert(ctx context.Context, c domain.CurrencyData) error
}

// RateFetcher requests current rates from the external provider.
type RateFetcher interface {
	FetchRate(ctx context.Context, from, to string) (domain.CurrencyData, error)
}

// Pair is a currency pair to keep warm.
type Pair struct {
	From string
	To   string
}

// ParsePairs parses pairs written as "USD/EUR".
func ParsePairs(list []string) ([]Pair, error) {
	pairs := make([]Pair, 0, len(list))

	for _, s := range list {
		from, to, ok := strings.Cut(strings.TrimSpace(s), "/")
		if !ok || !currencypkg.IsSupportedCurrency(from) || !currencypkg.IsSupportedCurrency(to) {
			return nil, fmt.Errorf("invalid currency pair %q", s)
		}

		pairs = append(pairs, Pair{From: from, To: to})
	}

	return pairs, nil
}

// Service facilitates currency conversion logic.
type Service struct {
	cache   *Cache
	repo    Repo
	fetcher RateFetcher
	clock   Clock
	group   singleflight.Group
}

// New returns currency Service.
func New(cache *Cache, repo Repo, fetcher RateFetcher, clock Clock) *Service {
	return &Service{
		cache:   cache,
		repo:    repo,
		fetcher: fetcher,
		clock:   clock,
	}
}

func validPair(from, to string) error {
	if !currencypkg.IsSupportedCurrency(from) || !currencypkg.IsSupportedCurrency(to) {
		return domain.ErrUnsupportedCurrency
	}

	return nil
}

// GetRate returns the rate for converting from into to.
//
// A fresh cached rate is served directly. Otherwise the persisted snapshot and then the provider
// are consulted, with concurrent lookups of one pair coalesced. If the provider fails the newest
// stale rate is served; without any rate the call fails with domain.ErrRateUnavailable.
func (s *Service) GetRate(ctx context.Context, from, to string) (domain.CurrencyData, error) {
	if err := validPair(from, to); err != nil {
		return domain.CurrencyData{}, err
	}

	if from == to {
		return domain.CurrencyData{From: from, To: to, Rate: decimal.NewFromInt(1), FetchedAt: s.clock.Now()}, nil
	}

	if rate, fresh, ok := s.cache.Get(from, to); ok && fresh {
		return rate, nil
	}

	v, err, _ := s.group.Do(from+"/"+to, func() (interface{}, error) {
		return s.load(ctx, from, to, false)
	})
	if err != nil {
		return domain.CurrencyData{}, err
	}

	return v.(domain.CurrencyData), nil
}

func (s *Service) load(ctx context.Context, from, to string, force bool) (domain.CurrencyData, error) {
	l := zerolog.Ctx(ctx)

	fallback, fresh, hasFallback := s.cache.Get(from, to)
	if hasFallback && fresh && !force {
		return fallback, nil
	}

	stored, err := s.repo.Get(ctx, from, to)
	switch {
	case err == nil:
		if !force && s.cache.Fresh(stored) {
			s.cache.Set(stored)
			return stored, nil
		}

		if !hasFallback || stored.FetchedAt.After(fallback.FetchedAt) {
			fallback, hasFallback = stored, true
		}
	case errors.Is(err, currencyrepo.ErrNotFound):
	default:
		l.Warn().Err(err).Str("from", from).Str("to", to).Msg("reading stored rate failed")
	}

	fetched, err := s.fetcher.FetchRate(ctx, from, to)
	if err != nil {
		if hasFallback {
			l.Warn().Err(err).
				Str("from", from).
				Str("to", to).
				Time("fetched_at", fallback.FetchedAt).
				Msg("rate provider failed, serving stale rate")

			return fallback, nil
		}

		l.Error().Err(err).Str("from", from).Str("to", to).Msg("no exchange rate available")

		return domain.CurrencyData{}, domain.ErrRateUnavailable
	}

	s.cache.Set(fetched)

	if err := s.repo.Upsert(ctx, fetched); err != nil {
		l.Warn().Err(err).Str("from", from).Str("to", to).Msg("storing rate failed")
	}

	return fetched, nil
}

// Convert returns amount converted from one currency into another together with the rate used.
// The converted amount is rounded half-up to 2 decimal places.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, decimal.Zero, domain.ErrNegativeAmount
	}

	if err := validPair(from, to); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if from == to {
		return amount, decimal.NewFromInt(1), nil
	}

	rate, err := s.GetRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return amount.Mul(rate.Rate).Round(2), rate.Rate, nil
}

// Refresh fetches current rates for pairs regardless of cache freshness.
func (s *Service) Refresh(ctx context.Context, pairs []Pair) error {
	var result *multierror.Error

	for _, p := range pairs {
		p := p

		_, err, _ := s.group.Do(p.From+"/"+p.To, func() (interface{}, error) {
			return s.load(ctx, p.From, p.To, true)
		})
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s/%s: %w", p.From, p.To, err))
		}
	}

	return result.ErrorOrNil()
}

// RunRefresher refreshes pairs right away and then every interval until ctx is done.
func (s *Service) RunRefresher(ctx context.Context, interval time.Duration, pairs []Pair) {
	l := zerolog.Ctx(ctx).With().Str("component", "rate_refresher").Logger()
	ctx = l.WithContext(ctx)

	if len(pairs) == 0 || interval <= 0 {
		l.Info().Msg("rate refresher disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.Refresh(ctx, pairs); err != nil {
			l.Warn().Err(err).Msg("rate refresh incomplete")
		} else {
			l.Debug().Int("pairs", len(pairs)).Msg("rates refreshed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
