// Package ratelimit caps gateway requests per client IP with a fixed
// window counter.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinefinder/cinefinder/internal/metrics"
)

const (
	DefaultRequestsPerWindow = 120
	DefaultWindowDuration    = time.Minute
)

type ipBucket struct {
	count     int64
	resetTime time.Time
}

// IPLimiter counts requests per IP within a window.
type IPLimiter struct {
	mu        sync.Mutex
	ipBuckets map[string]*ipBucket

	ipLimit  int64
	ipWindow time.Duration
	now      func() time.Time

	exempt map[string]bool
}

// NewIPLimiter allows limit requests per window for each IP. A
// non-positive limit or window falls back to the defaults.
func NewIPLimiter(limit int, window time.Duration) *IPLimiter {
	if limit <= 0 {
		limit = DefaultRequestsPerWindow
	}
	if window <= 0 {
		window = DefaultWindowDuration
	}
	return &IPLimiter{
		ipBuckets: make(map[string]*ipBucket),
		ipLimit:   int64(limit),
		ipWindow:  window,
		now:       time.Now,
		exempt:    make(map[string]bool),
	}
}

// Exempt lets ips through unlimited. Call it before serving requests.
func (l *IPLimiter) Exempt(ips ...string) {
	for _, ip := range ips {
		l.exempt[ip] = true
	}
}

// Middleware rejects requests over the limit with 429. Loopback and
// exempted callers pass: in single-process mode the frontend reaches the
// gateway through its own address on behalf of every visitor.
func (l *IPLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if parsed := net.ParseIP(ip); (parsed != nil && parsed.IsLoopback()) || l.exempt[ip] {
				return next(c)
			}

			if !l.Allow(ip) {
				metrics.RateLimitedTotal.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, please try again later")
			}

			return next(c)
		}
	}
}

// Allow records a request from ip and reports whether it is within the
// limit.
func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	bucket, exists := l.ipBuckets[ip]
	if !exists || now.After(bucket.resetTime) {
		l.ipBuckets[ip] = &ipBucket{
			count:     1,
			resetTime: now.Add(l.ipWindow),
		}
		return true
	}

	if bucket.count >= l.ipLimit {
		return false
	}

	bucket.count++
	return true
}

// Cleanup drops expired buckets and returns how many remain.
func (l *IPLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for ip, bucket := range l.ipBuckets {
		if now.After(bucket.resetTime) {
			delete(l.ipBuckets, ip)
		}
	}
	return len(l.ipBuckets)
}
