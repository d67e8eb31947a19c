package app

import (
	"context"
	"time"

	"github.com/asl-dict/core/internal/modules/analytics"
	pkgcron "github.com/asl-dict/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// analyticsRetentionDays caps how long raw usage events are kept.
const analyticsRetentionDays = 90

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, an *analytics.Service, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:        "cleanup_analytics",
		Description: "purge usage events older than the retention window",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().UTC().AddDate(0, 0, -analyticsRetentionDays)
			deleted, err := an.PurgeOlderThan(cutoff)
			if err != nil {
				cronLogger.Warn("analytics cleanup failed", zap.Error(err))
				return err
			}
			cronLogger.Info("analytics cleanup done", zap.Int64("deleted", deleted))
			return nil
		},
	})
}
