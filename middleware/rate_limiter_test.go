package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiterBlocksBurst(t *testing.T) {
	limiter := NewRateLimiter()
	limiter.SetEndpointLimit("/limited", rate.Every(time.Hour), 2)

	e := echo.New()
	e.Use(limiter.RateLimit())
	e.GET("/limited", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/open", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	call := func(path, ip string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("/limited", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("/limited", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("/limited", "10.0.0.1"))

	// The address stays blocked on every route
	assert.Equal(t, http.StatusTooManyRequests, call("/open", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("/limited", "10.0.0.2"))

	// Blocks lift once they expire
	limiter.now = func() time.Time { return time.Now().Add(limiter.blockDuration + time.Second) }
	assert.Equal(t, http.StatusOK, call("/open", "10.0.0.1"))
}
