package middleware

import (
	"time"

	"process-report/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request after it is served.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"remote_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("http.request", args...)
		case status >= 400:
			logger.Warn("http.request", args...)
		default:
			logger.Debug("http.request", args...)
		}
	}
}
