package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fortivix/guardmarket/pkg/config"
	"github.com/fortivix/guardmarket/pkg/ratelimit"
)

type fakeLimiter struct {
	lastKey string
	result  *ratelimit.Result
	err     error
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit ratelimit.Limit) (*ratelimit.Result, error) {
	f.lastKey = key
	return f.result, f.err
}

func rateLimitedRouter(limiter ratelimit.RateLimiter, cfg config.RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(limiter, cfg))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return router
}

func TestRateLimitUsesGuardKeyWhenAuthenticated(t *testing.T) {
	limiter := &fakeLimiter{result: &ratelimit.Result{Allowed: true, Remaining: 4}}
	router := rateLimitedRouter(limiter, config.RateLimitConfig{Enabled: true, Rate: 5, PeriodSeconds: 1, Burst: 5})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Guard-ID", "g-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ratelimit.GuardKey("g-42"), limiter.lastKey)
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitFallsBackToIPKey(t *testing.T) {
	limiter := &fakeLimiter{result: &ratelimit.Result{Allowed: true, Remaining: 9}}
	router := rateLimitedRouter(limiter, config.RateLimitConfig{Enabled: true, Rate: 10, PeriodSeconds: 1, Burst: 10})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ratelimit.IPKey("192.0.2.1"), limiter.lastKey)
}

func TestRateLimitRejectsWhenExhausted(t *testing.T) {
	limiter := &fakeLimiter{result: &ratelimit.Result{Allowed: false, RetryAfter: 3 * time.Second}}
	router := rateLimitedRouter(limiter, config.RateLimitConfig{Enabled: true, Rate: 1, PeriodSeconds: 1, Burst: 1})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3", w.Header().Get("Retry-After"))
}

func TestRateLimitFailsOpenOnLimiterError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	router := rateLimitedRouter(limiter, config.RateLimitConfig{Enabled: true, Rate: 1, PeriodSeconds: 1, Burst: 1})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	limiter := &fakeLimiter{}
	router := rateLimitedRouter(limiter, config.RateLimitConfig{Enabled: false})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, limiter.lastKey)
}
