// Package handlers holds the small admin API handlers that wrap a single
// service.
package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinefinder/cinefinder/internal/health"
	"github.com/cinefinder/cinefinder/internal/scheduler"
)

// UpstreamStatus looks up the last recorded state of an upstream.
type UpstreamStatus interface {
	Item(category health.HealthCategory, id string) (health.HealthItem, bool)
}

// ProbeTarget is the upstream a probe task checks.
type ProbeTarget struct {
	Category health.HealthCategory
	ItemID   string
}

// TaskView is a task as listed by the API. Probe tasks carry the state of
// the upstream they check.
type TaskView struct {
	scheduler.TaskInfo
	Upstream *health.HealthItem `json:"upstream,omitempty"`
}

// SchedulerHandler exposes the background tasks.
type SchedulerHandler struct {
	scheduler *scheduler.Scheduler
	status    UpstreamStatus
	probes    map[string]ProbeTarget
}

// NewSchedulerHandler creates a scheduler handler. probes maps task IDs to
// the upstream each one checks; status may be nil.
func NewSchedulerHandler(sched *scheduler.Scheduler, status UpstreamStatus, probes map[string]ProbeTarget) *SchedulerHandler {
	return &SchedulerHandler{scheduler: sched, status: status, probes: probes}
}

// RegisterRoutes mounts the task routes on g.
func (h *SchedulerHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListTasks)
	g.GET("/:id", h.GetTask)
	g.POST("/:id/run", h.RunTask)
}

// ListTasks returns all scheduled tasks.
// GET /api/v1/scheduler/tasks
func (h *SchedulerHandler) ListTasks(c echo.Context) error {
	infos := h.scheduler.ListTasks()
	views := make([]TaskView, 0, len(infos))
	for _, info := range infos {
		views = append(views, h.view(info))
	}
	return c.JSON(http.StatusOK, views)
}

// GetTask returns one task.
// GET /api/v1/scheduler/tasks/:id
func (h *SchedulerHandler) GetTask(c echo.Context) error {
	task, err := h.scheduler.GetTask(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, h.view(*task))
}

// RunTask starts a task now. Running a probe refreshes its upstream state
// in the background.
// POST /api/v1/scheduler/tasks/:id/run
func (h *SchedulerHandler) RunTask(c echo.Context) error {
	taskID := c.Param("id")
	if err := h.scheduler.RunNow(taskID); err != nil {
		if errors.Is(err, scheduler.ErrTaskNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	resp := map[string]any{"taskId": taskID, "started": true}
	if target, ok := h.probes[taskID]; ok {
		resp["upstream"] = target.ItemID
	}
	return c.JSON(http.StatusAccepted, resp)
}

func (h *SchedulerHandler) view(info scheduler.TaskInfo) TaskView {
	v := TaskView{TaskInfo: info}
	target, ok := h.probes[info.ID]
	if !ok || h.status == nil {
		return v
	}
	if item, found := h.status.Item(target.Category, target.ItemID); found {
		v.Upstream = &item
	}
	return v
}
