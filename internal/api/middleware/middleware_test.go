package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cinefinder/cinefinder/internal/metrics"
)

func serve(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders())
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/search", ok)
	e.GET("/movie/:id", ok)

	rec := serve(e, "/search?q=x")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got == "" {
		t.Error("gateway responses must not be cached")
	}

	rec = serve(e, "/movie/1")
	if got := rec.Header().Get("Cache-Control"); got != "" {
		t.Errorf("page Cache-Control = %q, want unset", got)
	}
}

func TestMetrics_CountsByRoutePattern(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/movie/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/movie/:id", "200")
	before := testutil.ToFloat64(counter)

	serve(e, "/movie/1")
	serve(e, "/movie/2")

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("counter delta = %v, want 2", got)
	}
}
