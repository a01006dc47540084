package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestIPLimiter_Allow(t *testing.T) {
	l := NewIPLimiter(2, time.Minute)

	if !l.Allow("10.0.0.1") || !l.Allow("10.0.0.1") {
		t.Fatal("first two requests should be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Error("third request should be rejected")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("other IPs have their own bucket")
	}
}

func TestIPLimiter_WindowResets(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	if l.Allow("10.0.0.1") {
		t.Fatal("second request in window should be rejected")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("10.0.0.1") {
		t.Error("request after window should be allowed")
	}
}

func TestIPLimiter_Cleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPLimiter(5, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(30 * time.Second)
	l.Allow("10.0.0.2")

	now = now.Add(45 * time.Second)
	if got := l.Cleanup(); got != 1 {
		t.Errorf("Cleanup() = %d buckets, want 1", got)
	}
}

func TestIPLimiter_Middleware(t *testing.T) {
	e := echo.New()
	l := NewIPLimiter(1, time.Minute)
	e.GET("/search", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, l.Middleware())

	codes := make([]int, 0, 2)
	for range 2 {
		req := httptest.NewRequest(http.MethodGet, "/search", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 429]", codes)
	}
}

func TestNewIPLimiter_Defaults(t *testing.T) {
	l := NewIPLimiter(0, 0)
	if l.ipLimit != DefaultRequestsPerWindow || l.ipWindow != DefaultWindowDuration {
		t.Errorf("defaults = %d/%v", l.ipLimit, l.ipWindow)
	}
}

func TestIPLimiter_MiddlewareExemptsLoopback(t *testing.T) {
	e := echo.New()
	l := NewIPLimiter(1, time.Minute)
	e.GET("/search", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, l.Middleware())

	for i := range 3 {
		req := httptest.NewRequest(http.MethodGet, "/search", nil)
		req.RemoteAddr = "127.0.0.1:5555"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}

func TestIPLimiter_MiddlewareExemptsOwnAddress(t *testing.T) {
	e := echo.New()
	l := NewIPLimiter(1, time.Minute)
	l.Exempt("192.168.1.20")
	e.GET("/search", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, l.Middleware())

	codes := func(addr string) []int {
		var out []int
		for range 2 {
			req := httptest.NewRequest(http.MethodGet, "/search", nil)
			req.RemoteAddr = addr
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			out = append(out, rec.Code)
		}
		return out
	}

	if got := codes("192.168.1.20:5555"); got[1] != http.StatusOK {
		t.Errorf("exempt address codes = %v", got)
	}
	if got := codes("192.168.1.21:5555"); got[1] != http.StatusTooManyRequests {
		t.Errorf("other address codes = %v", got)
	}
}
