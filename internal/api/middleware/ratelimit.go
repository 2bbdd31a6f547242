package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/retroshelf/retroshelf/internal/metrics"
)

// RateLimiter throttles requests per client IP. Limiters live in an LRU so
// memory stays bounded no matter how many distinct IPs show up; evicting an
// idle IP just resets its budget.
type RateLimiter struct {
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows burst requests per window seconds for each IP.
func NewRateLimiter(burst int, windowSeconds int) *RateLimiter {
	cache, _ := lru.New[string, *rate.Limiter](4096)
	return &RateLimiter{
		limiters: cache,
		limit:    rate.Limit(float64(burst) / float64(windowSeconds)),
		burst:    burst,
	}
}

func (r *RateLimiter) limiterFor(ip string) *rate.Limiter {
	if limiter, ok := r.limiters.Get(ip); ok {
		return limiter
	}
	limiter := rate.NewLimiter(r.limit, r.burst)
	r.limiters.Add(ip, limiter)
	return limiter
}

// Middleware rejects over-budget requests with 429.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.limiterFor(c.ClientIP()).Allow() {
			metrics.RateLimitedRequestsTotal.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please try again later"})
			return
		}
		c.Next()
	}
}
