package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mtlprog/remit/internal/domain"
)

// RateFetcher refreshes the stored exchange rates.
type RateFetcher interface {
	FetchAndStoreRates(ctx context.Context) error
}

// failureAlertThreshold is the number of consecutive failed refreshes after which the
// stored rates are reported as stale.
const failureAlertThreshold = 3

// QuoteWorker periodically refreshes the USDC exchange rates used by simulated transfers.
type QuoteWorker struct {
	fetcher  RateFetcher
	interval time.Duration
	failures int
}

// NewQuoteWorker creates a new QuoteWorker.
func NewQuoteWorker(fetcher RateFetcher, interval time.Duration) *QuoteWorker {
	return &QuoteWorker{
		fetcher:  fetcher,
		interval: interval,
	}
}

// refresh runs one fetch. A rate-limited fetch is expected on the free CoinGecko tier and
// only warns; repeated failures of any kind escalate to an error.
func (w *QuoteWorker) refresh(ctx context.Context) {
	err := w.fetcher.FetchAndStoreRates(ctx)
	if err == nil {
		if w.failures > 0 {
			slog.Info("QuoteWorker: rates recovered", "failed_runs", w.failures)
		}
		w.failures = 0
		slog.Info("QuoteWorker: fetch completed")
		return
	}
	if ctx.Err() != nil {
		return
	}

	w.failures++
	switch {
	case w.failures >= failureAlertThreshold:
		slog.Error("QuoteWorker: rates are stale", "consecutive_failures", w.failures, "error", err)
	case errors.Is(err, domain.ErrRateLimited):
		slog.Warn("QuoteWorker: rate limited, keeping stored rates", "error", err)
	default:
		slog.Error("QuoteWorker: fetch failed", "error", err)
	}
}

// Run starts the quote worker loop. It blocks until the context is cancelled.
func (w *QuoteWorker) Run(ctx context.Context) {
	every(ctx, "QuoteWorker", w.interval, w.refresh)
}
