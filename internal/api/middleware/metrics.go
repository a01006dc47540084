package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinefinder/cinefinder/internal/metrics"
)

// Metrics records request counts and latencies by route pattern.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "/metrics" || path == "/ws" {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			if path == "" {
				path = "unmatched"
			}

			metrics.HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
