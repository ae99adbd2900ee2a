package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(limiter *RateLimiter, rules map[string]RateLimitRule) *gin.Engine {
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor:     ExportGroupFor,
		Limiter:      limiter,
		Rules:        rules,
	}))
	r.GET("/api/v1/profile/:id/pdf", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/api/v1/profile/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func serve(r http.Handler, path string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func TestRateLimitExportStricterThanDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := newLimitedRouter(limiter, map[string]RateLimitRule{
		"DEFAULT":            {Rate: 5, Burst: 10},
		ExportRateLimitGroup: {Rate: 1, Burst: 2},
	})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, "/api/v1/profile/p-1/pdf").Code, "export request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "/api/v1/profile/p-1/pdf").Code, "export request 3")

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, "/api/v1/profile/p-1").Code, "default request %d", i+1)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := newLimitedRouter(limiter, map[string]RateLimitRule{
		"DEFAULT": {Rate: 1, Burst: 1},
	})

	require.Equal(t, http.StatusOK, serve(r, "/api/v1/profile/p-1").Code)

	resp := serve(r, "/api/v1/profile/p-1")
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "rate_limited", payload.Error.Code)
	assert.Contains(t, payload.Error.Details, "retryAfterMs")
	assert.Equal(t, "DEFAULT", payload.Error.Details["group"])
}

func TestRateLimitRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	ok, _ := limiter.Allow("k", rule)
	require.True(t, ok, "first token")
	ok, wait := limiter.Allow("k", rule)
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	now = now.Add(time.Second)
	ok, _ = limiter.Allow("k", rule)
	assert.True(t, ok, "token after refill")
}

func TestRateLimiterSweepsIdleBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	limiter.Allow("203.0.113.7|EXPORT", rule)
	now = now.Add(idleBucketTTL + time.Second)
	for i := 1; i < sweepEvery; i++ {
		limiter.Allow("198.51.100.1|DEFAULT", rule)
	}
	assert.Equal(t, 1, limiter.Len(), "idle bucket is swept")
}
