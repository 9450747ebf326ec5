package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mtlprog/remit/internal/account"
)

// SnapshotGenerator defines the interface for generating snapshots.
type SnapshotGenerator interface {
	Generate(ctx context.Context, address string, date time.Time) (account.Summary, error)
}

// AfterSnapshotHook is called after each successful snapshot generation.
type AfterSnapshotHook interface {
	Export(ctx context.Context, summary account.Summary) error
}

// SnapshotWorker periodically snapshots a fixed set of watched addresses.
type SnapshotWorker struct {
	generator SnapshotGenerator
	addresses []string
	interval  time.Duration
	hook      AfterSnapshotHook // optional
	now       func() time.Time
}

// NewSnapshotWorker creates a new SnapshotWorker with an optional post-generation hook.
func NewSnapshotWorker(generator SnapshotGenerator, addresses []string, interval time.Duration, hook AfterSnapshotHook) *SnapshotWorker {
	return &SnapshotWorker{
		generator: generator,
		addresses: addresses,
		interval:  interval,
		hook:      hook,
		now:       time.Now,
	}
}

// utcDate returns the current date normalized to midnight UTC.
func (w *SnapshotWorker) utcDate() time.Time {
	now := w.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// runOnce snapshots every address. One failing address does not stop the others.
func (w *SnapshotWorker) runOnce(ctx context.Context) {
	date := w.utcDate()
	for _, addr := range w.addresses {
		if ctx.Err() != nil {
			return
		}
		summary, err := w.generator.Generate(ctx, addr, date)
		if err != nil {
			slog.Error("SnapshotWorker: generation failed", "address", addr, "error", err)
			continue
		}
		slog.Info("SnapshotWorker: generation completed", "address", addr, "transactions", summary.Stats.TotalTransactions)
		w.runHook(ctx, summary)
	}
}

// runHook calls the post-generation hook if one is configured.
func (w *SnapshotWorker) runHook(ctx context.Context, summary account.Summary) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, summary); err != nil {
		slog.Error("SnapshotWorker: export hook failed", "address", summary.Address, "error", err)
	} else {
		slog.Info("SnapshotWorker: export hook completed", "address", summary.Address)
	}
}

// Run starts the snapshot worker loop. It blocks until the context is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context) {
	slog.Info("SnapshotWorker: watching", "addresses", len(w.addresses))
	every(ctx, "SnapshotWorker", w.interval, w.runOnce)
}
