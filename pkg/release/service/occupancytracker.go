package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultTrackingInterval = 30 * time.Second

//OccupancyTracker periodically reports the utilisation of the worker pool
type OccupancyTracker struct {
	pool     *WorkerPool
	interval time.Duration
	logger   *zap.SugaredLogger
}

func NewOccupancyTracker(pool *WorkerPool, interval time.Duration, logger *zap.SugaredLogger) *OccupancyTracker {
	if interval <= 0 {
		interval = defaultTrackingInterval
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &OccupancyTracker{
		pool:     pool,
		interval: interval,
		logger:   logger,
	}
}

//Track blocks until the context is closed
func (t *OccupancyTracker) Track(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("Occupancy tracker stopped")
			return nil
		case <-ticker.C:
			if t.pool.IsClosed() {
				return nil
			}
			t.logger.Infow("Worker pool occupancy",
				"running", t.pool.Running(),
				"capacity", t.pool.Cap())
		}
	}
}
