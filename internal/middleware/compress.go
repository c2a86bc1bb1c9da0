package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// gzipWriter starts compressing on the first body write, so responses that
// never write (or panic first) leave the headers untouched.
type gzipWriter struct {
	gin.ResponseWriter
	pool *sync.Pool
	gz   *gzip.Writer
}

func (g *gzipWriter) start() {
	if g.gz != nil {
		return
	}
	h := g.Header()
	h.Del("Content-Length")
	h.Set("Content-Encoding", "gzip")
	h.Add("Vary", "Accept-Encoding")

	g.gz = g.pool.Get().(*gzip.Writer)
	g.gz.Reset(g.ResponseWriter)
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	g.start()
	return g.gz.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

func (g *gzipWriter) finish() {
	if g.gz == nil {
		return
	}
	g.gz.Close()
	g.gz.Reset(nil)
	g.pool.Put(g.gz)
	g.gz = nil
}

// CompressConfig represents compression configuration
type CompressConfig struct {
	Level int
	// Skip lists path prefixes served uncompressed.
	Skip []string
}

func DefaultCompressConfig() CompressConfig {
	return CompressConfig{
		Level: gzip.DefaultCompression,
		Skip:  []string{"/metrics", "/health"},
	}
}

// Compress gzips response bodies for clients that accept it. It must run
// outside ErrorHandler so rendered errors are compressed too.
func Compress(config CompressConfig) gin.HandlerFunc {
	pool := &sync.Pool{
		New: func() interface{} {
			gz, err := gzip.NewWriterLevel(nil, config.Level)
			if err != nil {
				gz = gzip.NewWriter(nil)
			}
			return gz
		},
	}

	return func(c *gin.Context) {
		if hasPrefix(c.Request.URL.Path, config.Skip) {
			c.Next()
			return
		}
		if c.Request.Method == http.MethodHead || !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		orig := c.Writer
		gw := &gzipWriter{ResponseWriter: orig, pool: pool}
		c.Writer = gw
		defer func() {
			gw.finish()
			c.Writer = orig
		}()

		c.Next()
	}
}
