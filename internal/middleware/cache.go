package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheConfig represents cache control configuration
type CacheConfig struct {
	MaxAge               time.Duration
	StaleWhileRevalidate time.Duration
	Private              bool
	Vary                 []string
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxAge:               30 * time.Second,
		StaleWhileRevalidate: 5 * time.Minute,
		Private:              true,
		Vary:                 []string{"Accept", "Origin"},
	}
}

// Cache adds Cache-Control headers to successful GET responses.
func Cache(config CacheConfig) gin.HandlerFunc {
	directives := make([]string, 0, 3)
	if config.Private {
		directives = append(directives, "private")
	} else {
		directives = append(directives, "public")
	}
	if config.MaxAge > 0 {
		directives = append(directives, "max-age="+strconv.Itoa(int(config.MaxAge.Seconds())))
	}
	if config.StaleWhileRevalidate > 0 {
		directives = append(directives, "stale-while-revalidate="+strconv.Itoa(int(config.StaleWhileRevalidate.Seconds())))
	}
	cacheControl := strings.Join(directives, ", ")
	vary := strings.Join(config.Vary, ", ")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Header("Cache-Control", "no-store")
			c.Next()
			return
		}

		// headers must be set before the handler writes the body
		c.Header("Cache-Control", cacheControl)
		if vary != "" {
			c.Header("Vary", vary)
		}

		c.Next()

		// errors are rendered later by ErrorHandler and must not be cached
		if len(c.Errors) > 0 && !c.Writer.Written() {
			c.Header("Cache-Control", "no-store")
		}
	}
}
