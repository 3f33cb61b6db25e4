package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
)

// RateLimiter is a sliding window limiter keyed by client address.
type RateLimiter struct {
	mu         sync.Mutex
	hits       map[string][]time.Time
	maxRequest int
	window     time.Duration
	now        func() time.Time
}

func NewRateLimiter(maxRequest int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:       make(map[string][]time.Time),
		maxRequest: maxRequest,
		window:     window,
		now:        time.Now,
	}
}

// Allow records a hit for key and reports whether it fits the window, with
// the hits left after it.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	hits := rl.hits[key]
	if len(hits) >= rl.maxRequest {
		return false, 0
	}
	rl.hits[key] = append(hits, now)
	return true, rl.maxRequest - len(hits) - 1
}

func (rl *RateLimiter) prune(now time.Time) {
	for key, hits := range rl.hits {
		kept := hits[:0]
		for _, t := range hits {
			if now.Sub(t) <= rl.window {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(rl.hits, key)
			continue
		}
		rl.hits[key] = kept
	}
}

// Middleware rejects clients over the limit with 429. A limiter with no
// budget lets everything through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.maxRequest <= 0 || rl.window <= 0 {
			c.Next()
			return
		}

		allowed, remaining := rl.Allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxRequest))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(rl.now().Add(rl.window).Unix(), 10))

		if !allowed {
			logger.WarnWithContext(c.Request.Context(), "Rate limit exceeded").
				Method(c.Request.Method).
				Path(c.Request.URL.Path).
				Int("max_requests", rl.maxRequest).
				Duration(rl.window).
				Log()
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				constants.BuildErrorResponse("Rate limit exceeded", map[string]any{"retry_after": rl.window.Seconds()}))
			return
		}
		c.Next()
	}
}
