// Package api assembles the HTTP server: the gateway JSON endpoints, the
// HTML frontend, the live search websocket and the admin API, mounted
// according to the configured server mode.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cinefinder/cinefinder/internal/api/handlers"
	"github.com/cinefinder/cinefinder/internal/api/ratelimit"
	"github.com/cinefinder/cinefinder/internal/config"
	"github.com/cinefinder/cinefinder/internal/gateway"
	"github.com/cinefinder/cinefinder/internal/health"
	"github.com/cinefinder/cinefinder/internal/metadata"
	"github.com/cinefinder/cinefinder/internal/render"
	"github.com/cinefinder/cinefinder/internal/scheduler"
	"github.com/cinefinder/cinefinder/internal/scheduler/tasks"
	"github.com/cinefinder/cinefinder/internal/searchview"
	"github.com/cinefinder/cinefinder/internal/startup"
	"github.com/cinefinder/cinefinder/internal/websocket"
)

// Server handles HTTP requests for every role this process serves.
type Server struct {
	echo      *echo.Echo
	cfg       *config.Config
	logger    zerolog.Logger
	logs      LogsProvider
	startedAt time.Time

	healthService *health.Service
	scheduler     *scheduler.Scheduler
	limiter       *ratelimit.IPLimiter
	probes        map[string]handlers.ProbeTarget

	// Gateway role
	metadataService *metadata.Service

	// Frontend role
	gatewayClient *gateway.Client
	renderer      *render.Renderer
	hub           *websocket.Hub

	cancel  context.CancelFunc
	hubDone chan struct{}
}

// NewServer creates the server and the services of the configured mode.
func NewServer(cfg *config.Config, logs LogsProvider, logger zerolog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = echo.ExtractIPDirect()

	s := &Server{
		echo:          e,
		cfg:           cfg,
		logger:        logger,
		logs:          logs,
		startedAt:     time.Now(),
		healthService: health.NewService(logger),
		limiter:       ratelimit.NewIPLimiter(cfg.Server.RequestsPerMinute, time.Minute),
		probes:        make(map[string]handlers.ProbeTarget),
	}

	sched, err := scheduler.New(logger)
	if err != nil {
		return nil, err
	}
	s.scheduler = sched

	if cfg.Server.ServesGateway() {
		svc, err := metadata.NewService(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create metadata service: %w", err)
		}
		s.metadataService = svc
	}

	if cfg.Server.ServesGateway() && cfg.Server.ServesFrontend() {
		s.limiter.Exempt(cfg.Server.DialHost())
	}

	if cfg.Server.ServesFrontend() {
		client, err := gateway.NewClient(cfg.Gateway, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gateway client: %w", err)
		}
		renderer, err := render.New()
		if err != nil {
			return nil, err
		}
		s.gatewayClient = client
		s.renderer = renderer
		s.hub = websocket.NewHub(client, renderer, s.viewOptions(), logger)
		s.healthService.SetBroadcaster(s.hub)
		e.Renderer = renderer
	}

	if err := s.registerTasks(); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

func (s *Server) viewOptions() searchview.Options {
	return searchview.Options{
		BlurDelay:  s.cfg.Frontend.BlurDelay,
		RevealStep: s.cfg.Frontend.RevealStep,
	}
}

func (s *Server) registerTasks() error {
	if err := tasks.RegisterRateLimitCleanupTask(s.scheduler, s.limiter); err != nil {
		return err
	}

	if s.metadataService != nil {
		probe := tasks.Probe{
			TaskID:   tasks.MetadataProbeTaskID,
			Name:     "TMDB",
			Category: health.CategoryMetadata,
			ItemID:   s.metadataService.ProviderName(),
			Checker:  health.CheckerFunc(s.metadataService.Test),
		}
		if err := s.registerProbe(probe); err != nil {
			return err
		}
	}

	if s.hub != nil {
		if err := tasks.RegisterSessionReaperTask(s.scheduler, s.hub, s.cfg.Frontend.SessionIdleTimeout); err != nil {
			return err
		}
		probe := tasks.Probe{
			TaskID:   tasks.GatewayProbeTaskID,
			Name:     "Gateway",
			Category: health.CategoryGateway,
			ItemID:   "gateway",
			Checker:  s.gatewayClient,
		}
		if err := s.registerProbe(probe); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) registerProbe(probe tasks.Probe) error {
	if err := tasks.RegisterUpstreamProbeTask(s.scheduler, s.healthService, probe); err != nil {
		return err
	}
	s.probes[probe.TaskID] = handlers.ProbeTarget{Category: probe.Category, ItemID: probe.ItemID}
	return nil
}

// Hub returns the websocket hub, or nil when the frontend is not served.
func (s *Server) Hub() *websocket.Hub {
	return s.hub
}

// Start runs the background services and listens for HTTP requests. It
// blocks until the listener stops.
func (s *Server) Start(address string) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.hub != nil {
		s.hubDone = make(chan struct{})
		go func() {
			defer close(s.hubDone)
			s.hub.Run(ctx)
		}()
		go s.awaitGateway(ctx)
	}

	s.scheduler.Start()

	s.logger.Info().Str("address", address).Str("mode", s.cfg.Server.Mode).Msg("Starting HTTP server")
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// awaitGateway waits for the gateway to answer so the first visitors do
// not all see request failures while it boots.
func (s *Server) awaitGateway(ctx context.Context) {
	err := startup.WithRetry(ctx, "gateway", startup.DefaultRetryConfig(), s.gatewayClient.Ping, s.logger)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", s.gatewayClient.BaseURL()).Msg("Gateway not reachable, pages will show request errors")
		return
	}
	s.logger.Info().Str("url", s.gatewayClient.BaseURL()).Msg("Gateway reachable")
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")

	if err := s.scheduler.Stop(); err != nil {
		s.logger.Warn().Err(err).Msg("Scheduler shutdown failed")
	}

	err := s.echo.Shutdown(ctx)

	if s.cancel != nil {
		s.cancel()
	}
	if s.hubDone != nil {
		select {
		case <-s.hubDone:
		case <-ctx.Done():
		}
	}
	return err
}
