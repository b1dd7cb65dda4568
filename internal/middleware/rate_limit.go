package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/rishangit/s-ams-sub002/internal/httperr"
)

// RateLimit caps the whole API at rps with the given burst. rps <= 0 disables it.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			httperr.Write(c, http.StatusTooManyRequests, "too_many_requests", "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
