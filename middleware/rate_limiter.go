// middleware/rate_limiter.go
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

type RateLimiter struct {
	ips            map[string]map[string]*rate.Limiter // ip -> route -> limiter
	blockedIPs     map[string]time.Time
	mu             sync.Mutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	endpointLimits map[string]endpointLimit
	now            func() time.Time
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:            make(map[string]map[string]*rate.Limiter),
		blockedIPs:     make(map[string]time.Time),
		defaultLimit:   rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:   20,
		blockDuration:  5 * time.Minute,
		endpointLimits: make(map[string]endpointLimit),
		now:            time.Now,
	}

	// Review decisions are cheap to repeat by accident, slow them down
	limiter.SetEndpointLimit("/api/applications/:id/employee-review", rate.Every(500*time.Millisecond), 5)
	limiter.SetEndpointLimit("/api/applications/:id/client-review", rate.Every(500*time.Millisecond), 5)
	limiter.SetEndpointLimit("/api/applications", rate.Every(time.Second), 10)
	limiter.SetEndpointLimit("/api/applications/refresh/all-applications", rate.Every(2*time.Second), 3)
	limiter.SetEndpointLimit("/api/auth/logout", rate.Every(time.Second), 5)

	return limiter
}

// SetEndpointLimit overrides the default limit for a route path
func (r *RateLimiter) SetEndpointLimit(path string, limit rate.Limit, burst int) {
	r.mu.Lock()
	r.endpointLimits[path] = endpointLimit{limit: limit, burst: burst}
	r.mu.Unlock()
}

// Cleanup drops expired blocks until ctx is done
func (r *RateLimiter) Cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			now := r.now()
			for ip, blockUntil := range r.blockedIPs {
				if now.After(blockUntil) {
					delete(r.blockedIPs, ip)
					delete(r.ips, ip)
				}
			}
			r.mu.Unlock()
		}
	}
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			r.mu.Lock()
			if blockUntil, blocked := r.blockedIPs[ip]; blocked {
				if r.now().Before(blockUntil) {
					r.mu.Unlock()
					return tooManyRequests(c, "IP address blocked due to too many requests", blockUntil)
				}
				delete(r.blockedIPs, ip)
				delete(r.ips, ip)
			}

			limit, burst := r.defaultLimit, r.defaultBurst
			if l, exists := r.endpointLimits[c.Path()]; exists {
				limit, burst = l.limit, l.burst
			}
			routes, exists := r.ips[ip]
			if !exists {
				routes = make(map[string]*rate.Limiter)
				r.ips[ip] = routes
			}
			limiter, exists := routes[c.Path()]
			if !exists {
				limiter = rate.NewLimiter(limit, burst)
				routes[c.Path()] = limiter
			}
			r.mu.Unlock()

			if !limiter.AllowN(r.now(), 1) {
				blockUntil := r.now().Add(r.blockDuration)
				r.mu.Lock()
				r.blockedIPs[ip] = blockUntil
				r.mu.Unlock()
				return tooManyRequests(c, "Too many requests", blockUntil)
			}

			return next(c)
		}
	}
}

func tooManyRequests(c echo.Context, message string, retryAfter time.Time) error {
	return c.JSON(http.StatusTooManyRequests, models.Response{
		Status:  http.StatusTooManyRequests,
		Message: message,
		Data:    map[string]string{"retryAfter": retryAfter.Format(time.RFC3339)},
	})
}
