// Package account aggregates on-chain balances, assets and transaction history into account summaries.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/mtlprog/remit/internal/domain"
	"github.com/mtlprog/remit/internal/retry"
)

// DefaultTransactionLimit is how many recent transactions a summary covers.
const DefaultTransactionLimit = 20

const defaultLookupConcurrency = 4

// ChainReader reads live account state.
type ChainReader interface {
	FetchAccount(ctx context.Context, address string) (domain.RawAccountInfo, error)
}

// IndexReader reads historical data from the indexer.
type IndexReader interface {
	ListTransactions(ctx context.Context, address string, limit int) ([]domain.RawTransactionRecord, error)
	LookupAsset(ctx context.Context, assetID uint64) (domain.AssetMetadata, error)
}

// Options tunes a Service. Zero fields take defaults.
type Options struct {
	TransactionLimit  int
	LookupConcurrency int
	Explorer          domain.Explorer
	Now               func() time.Time
}

// Service fetches raw account data and summarises it.
type Service struct {
	chain   ChainReader
	index   IndexReader
	retrier *retry.Retrier

	txLimit     int
	concurrency int
	explorer    domain.Explorer
	now         func() time.Time
}

// NewService creates an account Service. Every remote read goes through retrier.
func NewService(chain ChainReader, index IndexReader, retrier *retry.Retrier, opts Options) *Service {
	s := &Service{
		chain:       chain,
		index:       index,
		retrier:     retrier,
		txLimit:     opts.TransactionLimit,
		concurrency: opts.LookupConcurrency,
		explorer:    opts.Explorer,
		now:         opts.Now,
	}
	if s.txLimit <= 0 {
		s.txLimit = DefaultTransactionLimit
	}
	if s.concurrency <= 0 {
		s.concurrency = defaultLookupConcurrency
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Aggregate builds the Summary for address. An address that does not exist on-chain yields
// an unfunded zero Summary and no error. Other failures are returned wrapped, so callers can
// check errors.Is(err, domain.ErrRateLimited).
func (s *Service) Aggregate(ctx context.Context, address string) (Summary, error) {
	now := s.now()

	info, err := retry.Do(ctx, s.retrier, func(ctx context.Context) (domain.RawAccountInfo, error) {
		return s.chain.FetchAccount(ctx, address)
	})
	if errors.Is(err, domain.ErrAccountNotFound) {
		slog.Info("account not found on-chain, returning empty summary", "address", address)
		return EmptySummary(address, s.explorer, now), nil
	}
	if err != nil {
		return Summary{}, fmt.Errorf("fetching account %s: %w", address, err)
	}

	holdings := lo.Filter(info.AssetHoldings, func(h domain.AssetHolding, _ int) bool {
		return h.Amount > 0
	})
	metadata := s.resolveMetadata(ctx, holdings)

	txns, err := retry.Do(ctx, s.retrier, func(ctx context.Context) ([]domain.RawTransactionRecord, error) {
		return s.index.ListTransactions(ctx, address, s.txLimit)
	})
	if errors.Is(err, domain.ErrAccountNotFound) {
		txns = nil
	} else if err != nil {
		return Summary{}, fmt.Errorf("fetching transactions for %s: %w", address, err)
	}

	return Summarize(Input{
		Address:      address,
		Info:         info,
		Transactions: txns,
		Metadata:     metadata,
		Explorer:     s.explorer,
		Now:          now,
	}), nil
}

// resolveMetadata looks up every distinct asset concurrently and waits for all lookups.
// A failed lookup is logged and replaced by a placeholder; it never fails the pass.
func (s *Service) resolveMetadata(ctx context.Context, holdings []domain.AssetHolding) map[uint64]domain.AssetMetadata {
	ids := lo.Uniq(lo.Map(holdings, func(h domain.AssetHolding, _ int) uint64 { return h.AssetID }))
	results := make([]domain.AssetMetadata, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			meta, err := retry.Do(gctx, s.retrier, func(ctx context.Context) (domain.AssetMetadata, error) {
				return s.index.LookupAsset(ctx, id)
			})
			if err != nil {
				slog.Warn("asset metadata lookup failed, using placeholder", "assetId", id, "error", err)
				meta = domain.PlaceholderAssetMetadata(id)
			}
			meta.AssetID = id
			results[i] = meta
			return nil
		})
	}
	_ = g.Wait()

	return lo.KeyBy(results, func(m domain.AssetMetadata) uint64 { return m.AssetID })
}
