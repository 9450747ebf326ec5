package external

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Rate sources.
const (
	SourceCoinGecko = "coingecko"
	SourceStatic    = "static"
)

// StaticRates are used when no live quote has been stored yet.
var StaticRates = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
	"PKR": decimal.RequireFromString("278.50"),
}

// RateFetcher fetches live rates for a set of currencies.
type RateFetcher interface {
	FetchRates(ctx context.Context, currencies []string) (map[string]decimal.Decimal, error)
}

// Service keeps stored exchange rates fresh and resolves rates for transfers.
type Service struct {
	fetcher    RateFetcher
	repo       RateRepository
	currencies []string
}

// NewService creates a rate Service for the given currencies. A nil repo serves static rates only.
func NewService(fetcher RateFetcher, repo RateRepository, currencies []string) *Service {
	return &Service{
		fetcher: fetcher,
		repo:    repo,
		currencies: lo.Uniq(lo.Map(currencies, func(c string, _ int) string {
			return strings.ToUpper(strings.TrimSpace(c))
		})),
	}
}

// Currencies returns the tracked currency codes.
func (s *Service) Currencies() []string {
	return append([]string(nil), s.currencies...)
}

// FetchAndStoreRates fetches all tracked rates from CoinGecko and stores them in the database.
func (s *Service) FetchAndStoreRates(ctx context.Context) error {
	if s.fetcher == nil || s.repo == nil {
		return nil
	}
	rates, err := s.fetcher.FetchRates(ctx, s.currencies)
	if err != nil {
		return fmt.Errorf("fetching exchange rates: %w", err)
	}

	for currency, rate := range rates {
		if err := s.repo.SaveRate(ctx, currency, rate); err != nil {
			return fmt.Errorf("storing rate for %s: %w", currency, err)
		}
	}

	if missing := lo.Without(s.currencies, lo.Keys(rates)...); len(missing) > 0 {
		slog.Warn("exchange rates missing from response", "currencies", missing)
	}
	return nil
}

// Rate returns the rate for currency, falling back to StaticRates when nothing is stored.
func (s *Service) Rate(ctx context.Context, currency string) (Rate, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if s.repo != nil {
		r, err := s.repo.GetRate(ctx, currency)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, ErrRateNotFound) {
			slog.Warn("failed to read stored rate, using static rate", "currency", currency, "error", err)
		}
	}

	rate, ok := StaticRates[currency]
	if !ok {
		return Rate{}, fmt.Errorf("%w: %s", ErrRateNotFound, currency)
	}
	return Rate{Currency: currency, Rate: rate, Source: SourceStatic}, nil
}

// AllRates returns every stored rate, with static rates filling tracked currencies that have none.
func (s *Service) AllRates(ctx context.Context) ([]Rate, error) {
	var stored []Rate
	if s.repo != nil {
		var err error
		stored, err = s.repo.GetAllRates(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing rates: %w", err)
		}
	}

	byCurrency := lo.KeyBy(stored, func(r Rate) string { return r.Currency })
	for _, currency := range s.currencies {
		if _, ok := byCurrency[currency]; ok {
			continue
		}
		if rate, ok := StaticRates[currency]; ok {
			stored = append(stored, Rate{Currency: currency, Rate: rate, Source: SourceStatic})
		}
	}
	return stored, nil
}
