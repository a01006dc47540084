package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeaders sets the response headers shared by every route.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", "frame-ancestors 'self'; frame-src https://www.youtube.com")

			// Search results change with upstream data; never cache them.
			if isNoStore(c.Request().URL.Path) {
				h.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
				h.Set("Pragma", "no-cache")
			}

			return next(c)
		}
	}
}

func isNoStore(path string) bool {
	return strings.HasPrefix(path, "/api") || path == "/search" || path == "/suggest"
}
