package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cinefinder/cinefinder/internal/api/handlers"
	apimw "github.com/cinefinder/cinefinder/internal/api/middleware"
	"github.com/cinefinder/cinefinder/internal/frontend"
	"github.com/cinefinder/cinefinder/internal/metadata"
)

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(apimw.SecurityHeaders())
	s.echo.Use(middleware.BodyLimit("64K"))
	s.echo.Use(apimw.Metrics())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		LogRemoteIP: true,
		HandleError: true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Debug().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("ip", v.RemoteIP).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)
	api.GET("/health", s.getHealth)
	handlers.NewSchedulerHandler(s.scheduler, s.healthService, s.probes).RegisterRoutes(api.Group("/scheduler/tasks"))
	if s.logs != nil {
		NewLogsHandlers(s.logs).RegisterRoutes(api.Group("/system/logs"))
	}

	if s.metadataService != nil {
		gw := s.echo.Group("", s.limiter.Middleware())
		metadata.NewHandlers(s.metadataService, s.logger).RegisterRoutes(gw)
	}

	if s.hub != nil {
		frontend.NewHandlers(s.gatewayClient, s.viewOptions(), s.logger).RegisterRoutes(s.echo)
		s.echo.GET("/ws", s.hub.HandleWebSocket)
	}
}
