package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit is a fixed-window per-IP limiter backed by redis. When redis
// is unreachable the request is allowed through; throttling is a
// protection, not a correctness requirement.
func RateLimit(client *redis.Client, perMinute int) gin.HandlerFunc {
	window := time.Minute

	return func(c *gin.Context) {
		if perMinute <= 0 {
			c.Next()
			return
		}

		bucket := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("wcmap:ratelimit:%s:%d", c.ClientIP(), bucket)

		ctx := c.Request.Context()
		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, window)
		}

		if count > int64(perMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests."})
			return
		}

		c.Next()
	}
}
