package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-api/internal/cache"
	"portfolio-api/internal/transport/http/response"
)

// RateLimitLogin throttles credential endpoints per client IP. Limiter
// errors let the request through.
func RateLimitLogin(limiter cache.LoginLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Printf("[ratelimit] limiter error, allowing request: %v", err)
		}
		if !allowed {
			response.Error(c, http.StatusTooManyRequests, response.CodeTooManyRequests, "too many attempts, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
