package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ventureflow/backend/internal/interfaces/http/dto"
)

// RateLimiter is a fixed-window counter per key. Expired windows are swept
// lazily, at most once per window, so an idle limiter holds no goroutine.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	limit     int
	period    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type window struct {
	used    int
	resetAt time.Time
}

// NewRateLimiter allows limit requests per key in every period
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Take consumes one request for key. It returns whether the request is
// allowed, what is left in the window and how long until the window resets.
func (rl *RateLimiter) Take(key string) (allowed bool, remaining int, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	w, ok := rl.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(rl.period)}
		rl.windows[key] = w
	}
	if w.used >= rl.limit {
		return false, 0, w.resetAt.Sub(now)
	}
	w.used++
	return true, rl.limit - w.used, w.resetAt.Sub(now)
}

// Allow reports whether a request for key fits in the current window
func (rl *RateLimiter) Allow(key string) bool {
	ok, _, _ := rl.Take(key)
	return ok
}

// Remaining returns what is left for key without consuming anything
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || !rl.now().Before(w.resetAt) {
		return rl.limit
	}
	return rl.limit - w.used
}

func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.period {
		return
	}
	rl.lastSweep = now
	for key, w := range rl.windows {
		if !now.Before(w.resetAt) {
			delete(rl.windows, key)
		}
	}
}

// RateLimit limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string { return c.ClientIP() })
}

// RateLimitByKey limits requests per key returned by keyFunc
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return limited(limiter, keyFunc, "Too many requests. Please try again later.")
}

// AuthRateLimit limits login and refresh attempts per client IP. Its keys
// are prefixed so the limiter can be shared without clashing with RateLimit.
func AuthRateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return limited(limiter, func(c *gin.Context) string { return "auth:" + c.ClientIP() },
		"Too many authentication attempts. Please try again later.")
}

func limited(limiter *RateLimiter, keyFunc func(*gin.Context) string, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, remaining, retryAfter := limiter.Take(keyFunc(c))
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, message)
			return
		}
		c.Next()
	}
}
