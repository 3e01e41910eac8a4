package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/observability/metrics"
)

// Expirer deactivates allocations that ended before today.
type Expirer interface {
	ExpireEnded(today string) []int64
}

// ExpiryWorker periodically deactivates allocations whose end date has passed
type ExpiryWorker struct {
	allocations Expirer
	logger      *slog.Logger
	interval    time.Duration
	now         func() time.Time
}

// NewExpiryWorker creates a new expiry worker
func NewExpiryWorker(allocations Expirer, logger *slog.Logger, interval time.Duration) *ExpiryWorker {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpiryWorker{allocations: allocations, logger: logger, interval: interval, now: time.Now}
}

// Start runs one sweep immediately and then one per interval until ctx is done.
func (w *ExpiryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("expiry worker started", slog.Duration("interval", w.interval))
	w.RunOnce()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("expiry worker stopped")
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single sweep and returns how many allocations expired.
func (w *ExpiryWorker) RunOnce() int {
	today := w.now().Format(domain.DateLayout)
	ids := w.allocations.ExpireEnded(today)
	if len(ids) > 0 {
		metrics.ObserveExpired(len(ids))
		w.logger.Info("expired allocations deactivated",
			slog.Int("count", len(ids)),
			slog.Any("allocation_ids", ids),
		)
	}
	return len(ids)
}
