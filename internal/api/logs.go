package api

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cinefinder/cinefinder/internal/logger"
)

// LogsProvider provides access to log data.
type LogsProvider interface {
	RecentLogs() []logger.LogEntry
	LogFilePath() string
}

// LogsHandlers serves the buffered log entries and the log file.
type LogsHandlers struct {
	provider LogsProvider
}

// NewLogsHandlers creates the log handlers.
func NewLogsHandlers(provider LogsProvider) *LogsHandlers {
	return &LogsHandlers{provider: provider}
}

// RegisterRoutes registers log routes on the given group.
func (h *LogsHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecentLogs)
	g.GET("/download", h.DownloadLogFile)
}

// logFilter narrows the buffered entries. Zero values match everything.
type logFilter struct {
	component string
	minLevel  zerolog.Level
	limit     int
}

func parseLogFilter(c echo.Context) (logFilter, error) {
	f := logFilter{
		component: strings.TrimSpace(c.QueryParam("component")),
		minLevel:  zerolog.TraceLevel,
	}
	if raw := c.QueryParam("level"); raw != "" {
		level, err := zerolog.ParseLevel(raw)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid level")
		}
		f.minLevel = level
	}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		f.limit = n
	}
	return f, nil
}

func (f logFilter) apply(entries []logger.LogEntry) []logger.LogEntry {
	out := make([]logger.LogEntry, 0, len(entries))
	for _, e := range entries {
		if f.component != "" && e.Component != f.component {
			continue
		}
		if level, err := zerolog.ParseLevel(e.Level); err == nil && level < f.minLevel {
			continue
		}
		out = append(out, e)
	}
	if f.limit > 0 && len(out) > f.limit {
		out = out[len(out)-f.limit:]
	}
	return out
}

// GetRecentLogs returns buffered log entries, oldest first, optionally
// narrowed to one component (gateway, gateway-client, websocket, tmdb...),
// a minimum level, and the last N matches.
// GET /api/v1/system/logs?component=&level=&limit=
func (h *LogsHandlers) GetRecentLogs(c echo.Context) error {
	filter, err := parseLogFilter(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, filter.apply(h.provider.RecentLogs()))
}

// DownloadLogFile serves the current log file.
// GET /api/v1/system/logs/download
func (h *LogsHandlers) DownloadLogFile(c echo.Context) error {
	logPath := h.provider.LogFilePath()
	if logPath == "" {
		return echo.NewHTTPError(http.StatusNotFound, "file logging is disabled")
	}
	if _, err := os.Stat(logPath); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "log file not found")
	}
	return c.Attachment(logPath, "cinefinder.log")
}
