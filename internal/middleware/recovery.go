package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medspa-api/pkg/errors"
	"github.com/jwalitptl/medspa-api/pkg/httputil"
)

// Recovery turns a handler panic into a 500 envelope. When the handler had
// already started the response there is nothing left to render; the
// connection is aborted after logging.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			event := log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("route", c.FullPath()).
				Str("path", c.Request.URL.Path).
				Str("request_id", c.GetString(ContextRequestID))

			if c.Writer.Written() {
				event.Int("status", c.Writer.Status()).Msg("Panic after response started")
				c.Abort()
				return
			}
			event.Msg("Request panic recovered")
			httputil.RespondWithError(c, errors.Internal(fmt.Errorf("panic: %v", rec)))
		}()
		c.Next()
	}
}
