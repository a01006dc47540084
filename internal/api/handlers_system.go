package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinefinder/cinefinder/internal/config"
)

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// getStatus reports the running roles and their dependencies.
// GET /api/v1/status
func (s *Server) getStatus(c echo.Context) error {
	response := map[string]any{
		"version":   config.Version,
		"mode":      s.cfg.Server.Mode,
		"startTime": s.startedAt.Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
		"healthy":   s.healthService.GetAll().Healthy,
	}

	if s.metadataService != nil {
		response["metadata"] = map[string]any{
			"provider":   s.metadataService.ProviderName(),
			"configured": s.metadataService.IsConfigured(),
			"region":     s.cfg.TMDB.Region,
			"language":   s.cfg.TMDB.Language,
		}
	}
	if s.hub != nil {
		response["gatewayUrl"] = s.gatewayClient.BaseURL()
		response["activeSessions"] = s.hub.ClientCount()
	}

	return c.JSON(http.StatusOK, response)
}

// getHealth returns the last probe result of each upstream.
// GET /api/v1/health
func (s *Server) getHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, s.healthService.GetAll())
}
