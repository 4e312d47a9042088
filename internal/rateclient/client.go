// Package rateclient fetches exchange rates from an ExchangeRate-API compatible provider.
package rateclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrProvider indicates that the provider could not return a rate.
var ErrProvider = errors.New("rate provider failure")

// Client requests pair rates from the provider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// New returns Client. The timeout bounds every request.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		now: time.Now,
	}
}

type pairResponse struct {
	Result         string          `json:"result"`
	ErrorType      string          `json:"error-type"`
	BaseCode       string          `json:"base_code"`
	TargetCode     string          `json:"target_code"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

// FetchRate returns the current rate for converting from into to.
func (c *Client) FetchRate(ctx context.Context, from, to string) (domain.CurrencyData, error) {
	l := zerolog.Ctx(ctx).With().Str("component", "rateclient").Logger()

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.CurrencyData{}, fmt.Errorf("invalid base url: %w", err)
	}

	u = u.JoinPath("v6", c.apiKey, "pair", from, to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.CurrencyData{}, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn().Err(err).Str("from", from).Str("to", to).Msg("rate request failed")
		return domain.CurrencyData{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.CurrencyData{}, fmt.Errorf("%w: reading body: %v", ErrProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		l.Warn().Int("status_code", resp.StatusCode).Str("from", from).Str("to", to).Msg("unexpected provider status")
		return domain.CurrencyData{}, fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}

	var pr pairResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return domain.CurrencyData{}, fmt.Errorf("%w: decoding body: %v", ErrProvider, err)
	}

	if pr.Result != "success" {
		return domain.CurrencyData{}, fmt.Errorf("%w: %s", ErrProvider, pr.ErrorType)
	}

	if !pr.ConversionRate.IsPositive() {
		return domain.CurrencyData{}, fmt.Errorf("%w: non-positive rate %s", ErrProvider, pr.ConversionRate)
	}

	return domain.CurrencyData{
		From:      from,
		To:        to,
		Rate:      pr.ConversionRate,
		FetchedAt: c.now().UTC(),
	}, nil
}
