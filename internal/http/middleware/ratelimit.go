package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yungbote/edubox-backend/internal/http/response"
	"github.com/yungbote/edubox-backend/internal/observability"
	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterSweepEvery = 1024
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per caller: the user id when
// authenticated, the client IP otherwise.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rps      rate.Limit
	burst    int
	calls    int
	now      func() time.Time
	metrics  *observability.Metrics
}

func NewRateLimiter(rps float64, burst int, metrics *observability.Metrics) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
		metrics:  metrics,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.calls++
	if rl.calls%limiterSweepEvery == 0 {
		for k, e := range rl.limiters {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(rl.limiters, k)
			}
		}
	}
	e, ok := rl.limiters[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limiters[key] = e
	}
	e.lastSeen = now
	return e.lim.AllowN(now, 1)
}

// Middleware is a pass-through when the limiter is nil or rps <= 0.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	if rl == nil || rl.rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id := ctxutil.GetIdentity(c.Request.Context()); id != nil {
			key = "user:" + id.UserID
		}
		if !rl.Allow(key) {
			rl.metrics.IncRateLimited()
			c.Header("Retry-After", "1")
			response.RespondError(c, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}
		c.Next()
	}
}
