package startup

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinefinder/cinefinder/internal/gateway"
)

func fastRetry() RetryConfig {
	return RetryConfig{InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, MaxAttempts: 3, Multiplier: 2}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"refused", errors.New("dial tcp 127.0.0.1:8080: connection refused"), true},
		{"gateway 502", fmt.Errorf("%w: 502", gateway.ErrUnexpectedStatus), true},
		{"deadline", context.DeadlineExceeded, true},
		{"malformed", gateway.ErrMalformed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetry_SucceedsAfterTransient(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), "gateway", fastRetry(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, zerolog.Nop())

	if err != nil {
		t.Fatalf("WithRetry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetry_StopsOnPermanent(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), "gateway", fastRetry(), func(context.Context) error {
		calls++
		return gateway.ErrMalformed
	}, zerolog.Nop())

	if !errors.Is(err, gateway.ErrMalformed) || calls != 1 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}

func TestWithRetry_GivesUp(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), "gateway", fastRetry(), func(context.Context) error {
		calls++
		return errors.New("no such host")
	}, zerolog.Nop())

	if err == nil || calls != 3 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastRetry()
	cfg.InitialDelay = time.Hour

	err := WithRetry(ctx, "gateway", cfg, func(context.Context) error {
		cancel()
		return errors.New("connection refused")
	}, zerolog.Nop())

	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
