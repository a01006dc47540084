package tasks

import (
	"context"
	"time"

	"github.com/cinefinder/cinefinder/internal/scheduler"
)

const SessionReaperTaskID = "session-reaper"

// SessionReaper closes live search sessions with no recent activity.
type SessionReaper interface {
	ReapIdle(maxIdle time.Duration) int
}

// RegisterSessionReaperTask closes idle websocket sessions every five
// minutes.
func RegisterSessionReaperTask(sched *scheduler.Scheduler, reaper SessionReaper, maxIdle time.Duration) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          SessionReaperTaskID,
		Name:        "Session Reaper",
		Description: "Closes live search sessions idle longer than the configured timeout",
		Cron:        "*/5 * * * *",
		Func: func(ctx context.Context) error {
			reaper.ReapIdle(maxIdle)
			return nil
		},
	})
}
