package api

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// rateLimitMiddleware enforces a per-client token bucket keyed by IP.
func (s *Server) rateLimitMiddleware() fiber.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limit := rate.Limit(s.config.Engine.RateLimit)
	burst := s.config.Engine.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return func(c *fiber.Ctx) error {
		ip := c.IP()

		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(limit, burst)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}
		return c.Next()
	}
}

// metricsMiddleware records request latency per route and status.
func (s *Server) metricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		s.wellapp.Metrics.HTTPRequestLatency.
			WithLabelValues(route, status).
			Observe(time.Since(start).Seconds())
		return err
	}
}
