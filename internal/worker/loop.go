// Package worker runs periodic background jobs: exchange-rate refresh and account snapshots.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// every runs job once immediately and then on each tick of interval until ctx is done.
func every(ctx context.Context, name string, interval time.Duration, job func(context.Context)) {
	slog.Info(name + ": starting")

	job(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info(name + ": shutting down")
			return
		case <-ticker.C:
			job(ctx)
		}
	}
}
