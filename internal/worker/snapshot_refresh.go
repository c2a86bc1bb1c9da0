package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher reloads a cached snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// SnapshotRefreshWorker reloads the dataset on an interval so request paths
// rarely see a cold cache.
type SnapshotRefreshWorker struct {
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
	log       zerolog.Logger
}

func NewSnapshotRefreshWorker(refresher Refresher, interval time.Duration, log zerolog.Logger) *SnapshotRefreshWorker {
	return &SnapshotRefreshWorker{
		refresher: refresher,
		interval:  interval,
		timeout:   interval,
		log:       log.With().Str("worker", "snapshot_refresh").Logger(),
	}
}

// Start warms the cache once, then refreshes on every tick until ctx is done.
func (w *SnapshotRefreshWorker) Start(ctx context.Context) {
	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *SnapshotRefreshWorker) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	if err := w.refresher.Refresh(ctx); err != nil {
		// Log error but continue; cached data keeps serving until its TTL
		w.log.Error().Err(err).Msg("snapshot refresh failed")
		return
	}
	w.log.Debug().Dur("took", time.Since(start)).Msg("snapshot refreshed")
}
