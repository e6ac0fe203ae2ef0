package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fahrezi93/hoax-detection/internal/adapter/http/handler"
)

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects requests over any of the limiters with 429. Limiter
// errors let the request through. onLimited may be nil.
func RateLimit(name string, logger *zap.Logger, onLimited func(route string), limiters ...Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		for _, l := range limiters {
			ok, err := l.Allow(c.Request.Context(), key)
			if err != nil {
				logger.Warn("rate limiter unavailable",
					zap.String("limiter", name),
					zap.Error(err))
				continue
			}
			if ok {
				continue
			}

			if onLimited != nil {
				onLimited(c.FullPath())
			}
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				handler.ErrorEnvelope(c.GetString("request_id"), handler.CodeRateLimited, "Rate limit exceeded"))
			return
		}
		c.Next()
	}
}
