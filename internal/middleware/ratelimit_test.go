package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/alshifa-health/clinic-api/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":41000"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitExhaustsBurst(t *testing.T) {
	r := limitedRouter(RateLimit(config.RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         2,
	}))

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)

	w := hit(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimitIsPerIP(t *testing.T) {
	r := limitedRouter(RateLimit(config.RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
	}))

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1").Code)

	// a different client still has its full budget
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2").Code)
}

func TestAuthRateLimitRetryAfter(t *testing.T) {
	r := limitedRouter(AuthRateLimit(config.RateLimitConfig{
		AuthRequestsPerMinute: 1,
	}))

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.9").Code)

	w := hit(r, "10.0.0.9")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}
