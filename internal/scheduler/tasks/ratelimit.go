package tasks

import (
	"context"

	"github.com/cinefinder/cinefinder/internal/scheduler"
)

const RateLimitCleanupTaskID = "ratelimit-cleanup"

// BucketCleaner drops expired rate limit buckets.
type BucketCleaner interface {
	Cleanup() int
}

// RegisterRateLimitCleanupTask prunes expired per-IP buckets every minute.
func RegisterRateLimitCleanupTask(sched *scheduler.Scheduler, cleaner BucketCleaner) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          RateLimitCleanupTaskID,
		Name:        "Rate Limit Cleanup",
		Description: "Drops expired per-IP request counters",
		Cron:        "* * * * *",
		Func: func(ctx context.Context) error {
			cleaner.Cleanup()
			return nil
		},
	})
}
