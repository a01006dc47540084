package tasks

import (
	"context"
	"time"

	"github.com/cinefinder/cinefinder/internal/health"
	"github.com/cinefinder/cinefinder/internal/scheduler"
)

const (
	GatewayProbeTaskID  = "gateway-probe"
	MetadataProbeTaskID = "metadata-probe"

	probeTimeout = 10 * time.Second
)

// Probe identifies one upstream health check.
type Probe struct {
	TaskID   string
	Name     string
	Category health.HealthCategory
	ItemID   string
	Checker  health.Checker
}

// RegisterUpstreamProbeTask checks an upstream every two minutes and
// records the result in the health service.
func RegisterUpstreamProbeTask(sched *scheduler.Scheduler, healthService *health.Service, probe Probe) error {
	healthService.RegisterItem(probe.Category, probe.ItemID, probe.Name)

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          probe.TaskID,
		Name:        probe.Name + " Probe",
		Description: "Checks that " + probe.Name + " is reachable",
		Cron:        "*/2 * * * *",
		RunOnStart:  true,
		Func: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()
			return healthService.Check(ctx, probe.Category, probe.ItemID, probe.Checker)
		},
	})
}
