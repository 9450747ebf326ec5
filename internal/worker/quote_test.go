package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mtlprog/remit/internal/domain"
)

type mockRateFetcher struct {
	callCount atomic.Int32
	errs      []error
}

// FetchAndStoreRates returns errs in order, then nil.
func (m *mockRateFetcher) FetchAndStoreRates(_ context.Context) error {
	n := int(m.callCount.Add(1)) - 1
	if n < len(m.errs) {
		return m.errs[n]
	}
	return nil
}

func TestQuoteWorkerFetchesOnStartAndTicks(t *testing.T) {
	mock := &mockRateFetcher{}
	w := NewQuoteWorker(mock, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := mock.callCount.Load(); got < 2 {
		t.Errorf("call count = %d, want >= 2", got)
	}
}

func TestQuoteWorkerKeepsRunningAfterError(t *testing.T) {
	rateLimited := fmt.Errorf("fetching exchange rates: %w", domain.ErrRateLimited)
	mock := &mockRateFetcher{errs: []error{rateLimited, rateLimited, rateLimited, rateLimited}}
	w := NewQuoteWorker(mock, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if got := mock.callCount.Load(); got < 5 {
		t.Errorf("call count = %d, want >= 5", got)
	}
	if w.failures != 0 {
		t.Errorf("failures = %d, want reset to 0 after recovery", w.failures)
	}
}

func TestQuoteWorkerCountsConsecutiveFailures(t *testing.T) {
	mock := &mockRateFetcher{errs: []error{errors.New("timeout"), errors.New("timeout")}}
	w := NewQuoteWorker(mock, time.Hour)
	ctx := context.Background()

	w.refresh(ctx)
	w.refresh(ctx)
	if w.failures != 2 {
		t.Fatalf("failures = %d, want 2", w.failures)
	}

	w.refresh(ctx)
	if w.failures != 0 {
		t.Errorf("failures = %d, want 0 after success", w.failures)
	}
}

func TestQuoteWorkerIgnoresCancelledFetch(t *testing.T) {
	mock := &mockRateFetcher{errs: []error{context.Canceled}}
	w := NewQuoteWorker(mock, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.refresh(ctx)

	if w.failures != 0 {
		t.Errorf("failures = %d, want 0 for a cancelled fetch", w.failures)
	}
}
