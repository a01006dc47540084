// Package startup holds helpers for bringing the server up while its
// upstreams may still be unreachable.
package startup

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinefinder/cinefinder/internal/gateway"
)

// RetryConfig configures the exponential backoff.
type RetryConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxAttempts  int
	Multiplier   float64
}

// DefaultRetryConfig waits 2s, 4s, 8s and 16s between five attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialDelay: 2 * time.Second,
		MaxDelay:     time.Minute,
		MaxAttempts:  5,
		Multiplier:   2.0,
	}
}

// IsTransient reports whether err is likely to clear on its own: network
// failures and 5xx answers from the gateway.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, gateway.ErrUnexpectedStatus) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"no route to host",
		"i/o timeout",
		"connection reset",
		"temporary failure in name resolution",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// WithRetry runs fn until it succeeds, fails with a non-transient error, or
// runs out of attempts.
func WithRetry(ctx context.Context, name string, cfg RetryConfig, fn func(ctx context.Context) error, logger zerolog.Logger) error {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info().Str("operation", name).Int("attempt", attempt).Msg("Operation succeeded after retry")
			}
			return nil
		}
		lastErr = err

		if !IsTransient(err) {
			logger.Error().Err(err).Str("operation", name).Msg("Permanent error, not retrying")
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		logger.Warn().
			Err(err).
			Str("operation", name).
			Int("attempt", attempt).
			Int("maxAttempts", cfg.MaxAttempts).
			Dur("nextRetryIn", delay).
			Msg("Transient error, will retry")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
	}

	logger.Error().Err(lastErr).Str("operation", name).Int("attempts", cfg.MaxAttempts).
		Msg("Operation failed after all retries")
	return lastErr
}
