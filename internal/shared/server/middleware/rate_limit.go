package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"profile-backend/internal/shared/server/respond"
)

const (
	// DefaultRateLimitGroup covers every request without a dedicated group.
	DefaultRateLimitGroup = "DEFAULT"

	// ExportRateLimitGroup is the bucket group of document exports.
	ExportRateLimitGroup = "EXPORT"
)

// RateLimitRule is a token bucket refilled at Rate tokens per second.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RateLimitConfig selects a rule per request group.
type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// idleBucketTTL is how long an untouched bucket survives a sweep. Any bucket
// idle this long has refilled completely, so dropping it changes nothing.
const (
	idleBucketTTL = 10 * time.Minute
	sweepEvery    = 1024
)

// RateLimiter keeps one bucket per client and group.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
	calls   int
}

type rateBucket struct {
	tokens float64
	last   time.Time
}

// NewRateLimiter constructs a RateLimiter; a nil clock uses time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// RateLimit rejects requests over their group's budget with 429.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = DefaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := strings.TrimSpace(c.ClientIP())
		key := principal + "|" + group
		allowed, retryAfter := cfg.Limiter.Allow(key, rule)
		if allowed {
			c.Next()
			return
		}
		if retryAfter <= 0 {
			retryAfter = time.Second
		}
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many requests", gin.H{
			"group":        group,
			"retryAfterMs": retryAfter.Milliseconds(),
		})
	}
}

// ExportGroupFor routes document export endpoints to ExportRateLimitGroup.
func ExportGroupFor(c *gin.Context) string {
	path := c.FullPath()
	if c.Request.Method == http.MethodGet && (strings.HasSuffix(path, "/pdf") || strings.HasSuffix(path, "/downloadPDF")) {
		return ExportRateLimitGroup
	}
	return DefaultRateLimitGroup
}

// Allow takes one token from key's bucket, reporting the wait otherwise.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweepLocked(now)
	}
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{
			tokens: float64(rule.Burst),
			last:   now,
		}
		l.buckets[key] = bucket
	}
	elapsed := now.Sub(bucket.last).Seconds()
	if elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens -= 1
		return true, 0
	}
	waitMs := math.Ceil((1 - bucket.tokens) / rule.Rate * 1000)
	return false, time.Duration(waitMs) * time.Millisecond
}

// Len reports how many buckets are tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *RateLimiter) sweepLocked(now time.Time) {
	for key, bucket := range l.buckets {
		if now.Sub(bucket.last) > idleBucketTTL {
			delete(l.buckets, key)
		}
	}
}
