package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpirySweeper marks opportunity postings with past deadlines as expired
type ExpirySweeper interface {
	SweepExpired(ctx context.Context, batchSize int) (int, error)
}

// Pruner deletes rows older than a cutoff and reports how many went away.
// Both the outbox and the behavior snapshot repositories satisfy it.
type Pruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

const expirySweepBatchSize = 200

// NewExpirySweepJob builds the hourly opportunity expiry sweep
func NewExpirySweepJob(sweeper ExpirySweeper, interval time.Duration, logger *zap.Logger) Job {
	if interval <= 0 {
		interval = time.Hour
	}
	return Job{
		Name:     "opportunity-expiry-sweep",
		Interval: interval,
		Run: func(ctx context.Context) error {
			swept, err := sweeper.SweepExpired(ctx, expirySweepBatchSize)
			if err != nil {
				return err
			}
			if swept > 0 {
				logger.Info("Expiry sweep completed", zap.Int("swept", swept))
			}
			return nil
		},
	}
}

// NewOutboxCleanupJob builds the daily cleanup of published outbox entries
func NewOutboxCleanupJob(pruner Pruner, retention time.Duration, logger *zap.Logger) Job {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return Job{
		Name:     "outbox-cleanup",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			deleted, err := pruner.DeleteOlderThan(ctx, time.Now().Add(-retention))
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("Outbox cleanup completed", zap.Int64("deleted", deleted))
			}
			return nil
		},
	}
}

// NewSnapshotRetentionJob builds the daily pruning of old behavior snapshots
func NewSnapshotRetentionJob(pruner Pruner, retention time.Duration, logger *zap.Logger) Job {
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}
	return Job{
		Name:     "snapshot-retention",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			deleted, err := pruner.DeleteOlderThan(ctx, time.Now().Add(-retention))
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("Snapshot retention completed", zap.Int64("deleted", deleted))
			}
			return nil
		},
	}
}
