package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinefinder/cinefinder/internal/api"
	"github.com/cinefinder/cinefinder/internal/config"
	"github.com/cinefinder/cinefinder/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file")
	printConfig := flag.Bool("print-config", false, "print the resolved configuration and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *printConfig {
		out, err := config.Dump(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode config: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	os.Exit(run(cfg))
}

// run serves until a signal or a server failure and returns the exit code.
// Deferred cleanup, including the log file flush, completes before it returns.
func run(cfg *config.Config) int {
	log := logger.New(logger.Config{
		Level:           cfg.Logging.Level,
		Format:          cfg.Logging.Format,
		Path:            cfg.Logging.Path,
		MaxSizeMB:       cfg.Logging.MaxSizeMB,
		MaxBackups:      cfg.Logging.MaxBackups,
		MaxAgeDays:      cfg.Logging.MaxAgeDays,
		Compress:        cfg.Logging.Compress,
		EnableStreaming: true,
		BufferSize:      1000,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("mode", cfg.Server.Mode).
		Msg("starting CineFinder")

	server, err := api.NewServer(cfg, log, log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("failed to create server")
		return 1
	}

	// Log streaming needs the websocket hub, which only exists in frontend modes.
	if hub := server.Hub(); hub != nil {
		log.SetBroadcastHub(hub)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.Address())
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server failed")
			code = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
	return code
}
