package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/youruser/topster/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags each request with an id, attaches a scoped logger to
// the request context and logs the outcome.
func requestLogger(base *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		l := base.With("request_id", id)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), l))

		start := time.Now()
		c.Next()

		l.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}
}

// recovery turns a panic into the same opaque 500 a failed render gets.
func recovery(base *log.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		base.Error("panic serving request", "path", c.Request.URL.Path, "err", err)
		c.String(http.StatusInternalServerError, renderFailedBody)
		c.Abort()
	})
}
