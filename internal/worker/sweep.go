package worker

import (
	"context"
	"log/slog"
	"time"
)

// SessionSweeper drops expired sessions and reports how many it removed.
type SessionSweeper interface {
	Sweep() int
}

// SweepWorker periodically reclaims abandoned simulation sessions.
type SweepWorker struct {
	sweeper  SessionSweeper
	interval time.Duration
}

// NewSweepWorker creates a new SweepWorker.
func NewSweepWorker(sweeper SessionSweeper, interval time.Duration) *SweepWorker {
	return &SweepWorker{sweeper: sweeper, interval: interval}
}

func (w *SweepWorker) sweep(context.Context) {
	if n := w.sweeper.Sweep(); n > 0 {
		slog.Info("SweepWorker: removed expired sessions", "count", n)
	}
}

// Run starts the sweep loop. It blocks until the context is cancelled.
func (w *SweepWorker) Run(ctx context.Context) {
	every(ctx, "SweepWorker", w.interval, w.sweep)
}
