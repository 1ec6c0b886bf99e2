package ratelimit

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/palsuhanapp/hanapp-api/internal/pkg/response"
)

// Middleware limits requests per client IP. Used on the message-poll and
// thread-open endpoints, which clients hit in a loop.
func Middleware(limiter *RateLimiter) gin.HandlerFunc {
	return keyedMiddleware(limiter, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// UserBasedMiddleware limits per authenticated user, falling back to the
// client IP for anonymous requests.
func UserBasedMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return keyedMiddleware(limiter, func(c *gin.Context) string {
		if userID := c.GetString("userID"); userID != "" {
			return userID
		}
		return c.ClientIP()
	})
}

func keyedMiddleware(limiter *RateLimiter, keyFunc func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed := limiter.Allow(key)
		remaining := limiter.GetRemaining(key)
		resetTime := limiter.GetResetTime(key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetTime.Format(time.RFC3339))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(time.Until(resetTime).Seconds())+1))
			response.Error(c, 429, "Rate limit exceeded. Try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}
