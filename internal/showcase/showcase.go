// Package showcase computes the figures behind the landing page widgets: fee comparison,
// destination markets and projected impact.
package showcase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ErrUnknownMarket is returned for destinations that are not configured.
var ErrUnknownMarket = errors.New("unknown market")

// Provider is one way of sending money, with a flat fee in USD.
type Provider struct {
	Name         string          `json:"name"`
	FeeUSD       decimal.Decimal `json:"feeUsd"`
	Duration     time.Duration   `json:"-"`
	DurationText string          `json:"duration"`
}

// Market is a destination corridor.
type Market struct {
	Destination string `json:"destination"`
	Label       string `json:"label"`
	Currency    string `json:"currency"`
	Payout      string `json:"payout"`
}

// Config drives every widget. Brand copy and numbers live here instead of in variants.
type Config struct {
	Brand         string
	Competitor    Provider
	Product       Provider
	DefaultAmount decimal.Decimal
	Markets       []Market
	// Impact defaults: annual volume in USD, share moved to the product, and the fraction of
	// moved volume saved in fees.
	ImpactVolume      decimal.Decimal
	ImpactShare       decimal.Decimal
	ImpactSavingsRate decimal.Decimal
}

// DefaultConfig returns the RemitX landing page configuration.
func DefaultConfig() Config {
	return Config{
		Brand: "RemitX",
		Competitor: Provider{
			Name:         "Western Union",
			FeeUSD:       decimal.NewFromInt(15),
			Duration:     72 * time.Hour,
			DurationText: "3 days",
		},
		Product: Provider{
			Name:         "RemitX (Algorand)",
			FeeUSD:       decimal.RequireFromString("0.001"),
			Duration:     4 * time.Second,
			DurationText: "4 seconds",
		},
		DefaultAmount: decimal.NewFromInt(200),
		Markets: []Market{
			{Destination: "Pakistan", Label: "Send money to Pakistan", Currency: "PKR", Payout: "JazzCash/Easypaisa PKR credit"},
			{Destination: "USA", Label: "Send money to USA", Currency: "USD", Payout: "USD bank deposit"},
		},
		ImpactVolume:      decimal.NewFromInt(1_000_000_000),
		ImpactShare:       decimal.RequireFromString("0.10"),
		ImpactSavingsRate: decimal.RequireFromString("0.5"),
	}
}

// Quote is what one provider delivers for an amount.
type Quote struct {
	Provider        string          `json:"provider"`
	FeeUSD          decimal.Decimal `json:"feeUsd"`
	ReceivedUSD     decimal.Decimal `json:"receivedUsd"`
	Duration        string          `json:"duration"`
	DurationSeconds int64           `json:"durationSeconds"`
}

// Comparison sets the competitor against the product for one amount.
type Comparison struct {
	AmountUSD   decimal.Decimal `json:"amountUsd"`
	Traditional Quote           `json:"traditional"`
	Product     Quote           `json:"product"`
	SavingsUSD  decimal.Decimal `json:"savingsUsd"`
}

// Showcase holds a Config.
type Showcase struct {
	cfg Config
}

// New creates a Showcase.
func New(cfg Config) *Showcase {
	return &Showcase{cfg: cfg}
}

// Brand returns the product name.
func (s *Showcase) Brand() string { return s.cfg.Brand }

// DefaultAmount returns the amount prefilled in the comparison form.
func (s *Showcase) DefaultAmount() decimal.Decimal { return s.cfg.DefaultAmount }

// CompareCosts prices amountUSD with both providers. Received amounts never go below zero.
func (s *Showcase) CompareCosts(amountUSD decimal.Decimal) Comparison {
	traditional := quote(s.cfg.Competitor, amountUSD)
	product := quote(s.cfg.Product, amountUSD)
	return Comparison{
		AmountUSD:   amountUSD,
		Traditional: traditional,
		Product:     product,
		SavingsUSD:  product.ReceivedUSD.Sub(traditional.ReceivedUSD),
	}
}

func quote(p Provider, amount decimal.Decimal) Quote {
	return Quote{
		Provider:        p.Name,
		FeeUSD:          p.FeeUSD,
		ReceivedUSD:     decimal.Max(decimal.Zero, amount.Sub(p.FeeUSD)),
		Duration:        p.DurationText,
		DurationSeconds: int64(p.Duration / time.Second),
	}
}

// Markets lists the configured destinations.
func (s *Showcase) Markets() []Market {
	return append([]Market(nil), s.cfg.Markets...)
}

// Market looks up a destination, ignoring case.
func (s *Showcase) Market(destination string) (Market, error) {
	m, ok := lo.Find(s.cfg.Markets, func(m Market) bool {
		return strings.EqualFold(m.Destination, strings.TrimSpace(destination))
	})
	if !ok {
		return Market{}, fmt.Errorf("%w: %s", ErrUnknownMarket, destination)
	}
	return m, nil
}

// ImpactBar is one bar of the savings chart, in millions of USD.
type ImpactBar struct {
	Label         string          `json:"label"`
	SavedMillions decimal.Decimal `json:"savedMillions"`
}

// Impact is the projected saving when a share of volume moves to the product.
type Impact struct {
	VolumeUSD decimal.Decimal `json:"volumeUsd"`
	Share     decimal.Decimal `json:"share"`
	SavedUSD  decimal.Decimal `json:"savedUsd"`
	Headline  string          `json:"headline"`
	Bars      []ImpactBar     `json:"bars"`
}

// Impact projects savings. Zero arguments fall back to the configured defaults.
func (s *Showcase) Impact(volume, share, savingsRate decimal.Decimal) Impact {
	if volume.IsZero() {
		volume = s.cfg.ImpactVolume
	}
	if share.IsZero() {
		share = s.cfg.ImpactShare
	}
	if savingsRate.IsZero() {
		savingsRate = s.cfg.ImpactSavingsRate
	}

	saved := volume.Mul(share).Mul(savingsRate)
	million := decimal.NewFromInt(1_000_000)

	return Impact{
		VolumeUSD: volume,
		Share:     share,
		SavedUSD:  saved,
		Headline: fmt.Sprintf("%s Remittance: %s%% via %s Saves %s",
			compactUSD(volume), share.Mul(decimal.NewFromInt(100)).String(), s.cfg.Brand, compactUSD(saved)),
		Bars: []ImpactBar{
			{Label: "Traditional", SavedMillions: decimal.Zero},
			{Label: s.cfg.Brand, SavedMillions: saved.Div(million).Round(2)},
		},
	}
}

// compactUSD renders 1e9 as "$1B" and 5e7 as "$50M".
func compactUSD(v decimal.Decimal) string {
	units := []struct {
		suffix string
		size   decimal.Decimal
	}{
		{"B", decimal.NewFromInt(1_000_000_000)},
		{"M", decimal.NewFromInt(1_000_000)},
		{"K", decimal.NewFromInt(1_000)},
	}
	for _, u := range units {
		if v.Abs().GreaterThanOrEqual(u.size) {
			return "$" + v.Div(u.size).Round(1).String() + u.suffix
		}
	}
	return "$" + v.Round(2).String()
}
