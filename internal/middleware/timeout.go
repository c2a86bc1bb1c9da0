package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type TimeoutConfig struct {
	Duration time.Duration
	// Skip lists path prefixes that keep the server's own deadline.
	Skip []string
}

// Timeout puts a deadline on the request context. Data loads observe it and
// fail with 503; the handler chain itself is never abandoned mid-write.
func Timeout(config TimeoutConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.Duration <= 0 || hasPrefix(c.Request.URL.Path, config.Skip) {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), config.Duration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			log.Warn().
				Str("path", c.Request.URL.Path).
				Str("request_id", c.GetString(ContextRequestID)).
				Dur("timeout", config.Duration).
				Int("status", c.Writer.Status()).
				Msg("Request exceeded deadline")
		}
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
