package queue

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/logger"
)

const purgeTimeout = 2 * time.Minute

// GarbageCollector drops dead-lettered report jobs once they are older than
// retention. A report whose job died is already marked failed, so nothing
// reads those messages after that.
type GarbageCollector struct {
	purger    DLQPurger
	interval  time.Duration
	retention time.Duration
	logger    *zap.Logger
}

// NewGarbageCollector creates a collector that purges through purger every interval
func NewGarbageCollector(purger DLQPurger, interval, retention time.Duration, log *zap.Logger) *GarbageCollector {
	if log == nil {
		log = zap.NewNop()
	}
	return &GarbageCollector{purger: purger, interval: interval, retention: retention, logger: log}
}

// Start purges once immediately, then every interval, until ctx is cancelled.
// It returns ctx.Err().
func (gc *GarbageCollector) Start(ctx context.Context) error {
	gc.runOnce(ctx)

	ticker := time.NewTicker(gc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			gc.runOnce(ctx)
		}
	}
}

func (gc *GarbageCollector) runOnce(ctx context.Context) {
	n, err := gc.collect(ctx)
	if err != nil {
		if ctx.Err() == nil {
			gc.logger.Warn("dlq_gc_failed", zap.String("error", logger.SanitizeError(err)))
		}
		return
	}
	if n > 0 {
		gc.logger.Info("dlq_gc_purged", zap.Int("count", n), zap.Duration("retention", gc.retention))
	}
}

// collect runs a single bounded purge and returns how many jobs were dropped
func (gc *GarbageCollector) collect(ctx context.Context) (int, error) {
	if gc.purger == nil {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, purgeTimeout)
	defer cancel()

	n, err := gc.purger.PurgeOlderThan(ctx, gc.retention)
	if err != nil {
		return n, fmt.Errorf("purge dead letters: %w", err)
	}
	return n, nil
}
