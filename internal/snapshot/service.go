package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mtlprog/remit/internal/account"
	"github.com/mtlprog/remit/internal/debounce"
)

// Aggregator builds the account summary stored in a snapshot.
type Aggregator interface {
	Aggregate(ctx context.Context, address string) (account.Summary, error)
}

// Service manages snapshot generation and retrieval.
type Service struct {
	accounts Aggregator
	repo     Repository
}

// NewService creates a new snapshot Service.
func NewService(accounts Aggregator, repo Repository) *Service {
	return &Service{accounts: accounts, repo: repo}
}

// Generate aggregates the address and stores the summary under date. A second call for the
// same day overwrites the first.
func (s *Service) Generate(ctx context.Context, address string, date time.Time) (account.Summary, error) {
	summary, err := s.accounts.Aggregate(ctx, address)
	if err != nil {
		return account.Summary{}, fmt.Errorf("aggregating account: %w", err)
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return account.Summary{}, fmt.Errorf("marshaling summary: %w", err)
	}

	day := date.UTC().Truncate(24 * time.Hour)
	if err := s.repo.Save(ctx, address, day, data); err != nil {
		return account.Summary{}, fmt.Errorf("saving snapshot: %w", err)
	}

	return summary, nil
}

// GetLatest retrieves the most recent snapshot for the address.
func (s *Service) GetLatest(ctx context.Context, address string) (*Snapshot, error) {
	return s.repo.GetLatest(ctx, address)
}

// GetByDate retrieves a snapshot for a specific date.
func (s *Service) GetByDate(ctx context.Context, address string, date time.Time) (*Snapshot, error) {
	return s.repo.GetByDate(ctx, address, date.UTC().Truncate(24*time.Hour))
}

// List retrieves recent snapshots.
func (s *Service) List(ctx context.Context, address string, limit int) ([]Snapshot, error) {
	return s.repo.List(ctx, address, limit)
}

// Generator is the part of Service a Refresher drives.
type Generator interface {
	Generate(ctx context.Context, address string, date time.Time) (account.Summary, error)
}

// Refresher coalesces refresh requests per address. A burst of requests for one address
// produces a single snapshot once the burst has been quiet for the debounce wait.
type Refresher struct {
	keyed   *debounce.Keyed[string, time.Time]
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	stopped  bool
	inFlight sync.WaitGroup
}

// NewRefresher creates a Refresher. Each generation runs with its own timeout.
func NewRefresher(gen Generator, wait, timeout time.Duration) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Refresher{timeout: timeout, ctx: ctx, cancel: cancel}
	r.keyed = debounce.NewKeyed(wait, func(address string, requested time.Time) {
		if !r.enter() {
			return
		}
		defer r.inFlight.Done()

		ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
		defer cancel()

		if _, err := gen.Generate(ctx, address, requested); err != nil {
			slog.Error("snapshot refresh failed", "address", address, "error", err)
			return
		}
		slog.Info("snapshot refreshed", "address", address)
	})
	return r
}

// enter registers a generation unless the Refresher is stopped.
func (r *Refresher) enter() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return false
	}
	r.inFlight.Add(1)
	return true
}

// Request schedules a refresh of address.
func (r *Refresher) Request(address string) {
	r.keyed.Call(address, time.Now())
}

// Stop drops pending refreshes, cancels running ones and waits for them to return.
func (r *Refresher) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	r.keyed.Stop()
	r.cancel()
	r.inFlight.Wait()
}
