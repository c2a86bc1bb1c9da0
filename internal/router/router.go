package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/medspa-api/internal/middleware"
	"github.com/jwalitptl/medspa-api/pkg/errors"
	"github.com/jwalitptl/medspa-api/pkg/httputil"
	"github.com/jwalitptl/medspa-api/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine   *gin.Engine
	health   Handler
	api      []Handler
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	config   RouterConfig
}

type RouterConfig struct {
	Mode           string
	RateLimit      middleware.RateLimiterConfig
	RateLimitOn    bool
	CORSConfig     middleware.CORSConfig
	CacheConfig    middleware.CacheConfig
	RequestTimeout time.Duration
	MetricsPath    string
	Security       middleware.SecurityConfig
	Compress       bool
}

// NewRouter wires middleware in order: recovery, request id, logging, metrics,
// security headers, compression, error rendering, CORS, timeout, rate limiting.
func NewRouter(config RouterConfig, m *metrics.Metrics, gatherer prometheus.Gatherer, health Handler, api ...Handler) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	engine := gin.New()
	middleware.RegisterValidators()

	r := &Router{
		engine:   engine,
		health:   health,
		api:      api,
		metrics:  m,
		gatherer: gatherer,
		config:   config,
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.SecurityHeaders(config.Security),
	)
	if config.Compress {
		engine.Use(middleware.Compress(middleware.DefaultCompressConfig()))
	}
	engine.Use(
		middleware.ErrorHandler(),
		middleware.CORS(config.CORSConfig),
		middleware.Timeout(middleware.TimeoutConfig{
			Duration: config.RequestTimeout,
			Skip:     []string{"/health/live"},
		}),
	)

	if config.RateLimitOn {
		engine.Use(middleware.NewRateLimiter(config.RateLimit).RateLimit())
	}

	engine.NoRoute(func(c *gin.Context) {
		httputil.RespondWithError(c, errors.NotFound("route", nil))
	})

	return r
}

func (r *Router) Setup() {
	root := r.engine.Group("")
	if r.health != nil {
		r.health.RegisterRoutes(root)
	}

	if r.gatherer != nil && r.config.MetricsPath != "" {
		r.engine.GET(r.config.MetricsPath, gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	api := r.engine.Group("/api")
	api.Use(middleware.Cache(r.config.CacheConfig))
	for _, h := range r.api {
		h.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, req)
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			errType := "client"
			if c.Writer.Status() >= 500 {
				errType = "server"
			}
			r.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, errType).Inc()
		}
	}
}
