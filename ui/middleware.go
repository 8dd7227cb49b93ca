package ui

import (
	"time"

	"tribodash/internal"

	"github.com/gin-gonic/gin"
)

// requestLogger logs one line per request at INFO, or WARN for server errors
func requestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= 500 {
			logger.Warn("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.RequestURI(), status, time.Since(start))
			return
		}
		logger.Info("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.RequestURI(), status, time.Since(start))
	}
}
