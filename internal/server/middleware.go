package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tildaslashalef/bugsquash/internal/loggy"
)

const requestIDHeader = "X-Request-ID"

// requestContext attaches the server logger and a request id to every request
func (s *Server) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = loggy.NewRequestID()
		}

		ctx := loggy.WithLogger(c.Request.Context(), s.logger)
		ctx = loggy.WithRequestID(ctx, id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, id)

		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger := loggy.FromContext(c.Request.Context())
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if c.Writer.Status() >= 500 {
			logger.Error("HTTP request", args...)
			return
		}
		logger.Info("HTTP request", args...)
	}
}
