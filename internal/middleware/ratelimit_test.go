package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dilkhush-raj/hrms/internal/middleware"
)

func newLimitedRouter(rpm int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	limiter := middleware.NewRateLimiter(rpm)
	if limiter != nil {
		r.Use(limiter.Handler())
	}
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestRateLimiterThrottles(t *testing.T) {
	// 60 rpm gives a burst of 6; the seventh immediate request is rejected.
	router := newLimitedRouter(60)

	var last int
	for i := 0; i < 7; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		last = w.Code
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestRateLimiterDisabled(t *testing.T) {
	router := newLimitedRouter(0)

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
}
