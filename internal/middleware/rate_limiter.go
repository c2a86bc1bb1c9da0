package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/medspa-api/pkg/errors"
	"github.com/jwalitptl/medspa-api/pkg/httputil"
)

// RateLimiterConfig sizes the token bucket kept for each client IP.
type RateLimiterConfig struct {
	RPS   float64
	Burst int
	// IdleTTL drops a client's bucket after it has been unused this long.
	IdleTTL time.Duration
}

type RateLimiter struct {
	config  RateLimiterConfig
	mu      sync.Mutex
	buckets *gocache.Cache
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	return &RateLimiter{
		config:  config,
		buckets: gocache.New(config.IdleTTL, 2*config.IdleTTL),
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.buckets.Get(key); ok {
		l := v.(*rate.Limiter)
		rl.buckets.SetDefault(key, l)
		return l
	}
	l := rate.NewLimiter(rate.Limit(rl.config.RPS), rl.config.Burst)
	rl.buckets.SetDefault(key, l)
	return l
}

// RateLimit rejects requests over the client's budget with 429 and a
// Retry-After hint in whole seconds.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		l := rl.limiter(c.ClientIP())
		if !l.Allow() {
			wait := time.Second
			if rl.config.RPS > 0 {
				wait = time.Duration(float64(time.Second) / rl.config.RPS)
			}
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			httputil.RespondWithError(c, errors.RateLimited())
			return
		}
		c.Next()
	}
}
