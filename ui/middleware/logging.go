package middleware

import (
	"time"

	"payslip/internal"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request. Query strings and form bodies are
// never logged; they carry employee ids and the admin password.
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := "[HTTP] %s %s %d %s"
		args := []interface{}{c.Request.Method, c.FullPath(), status, time.Since(start).Round(time.Microsecond)}
		switch {
		case status >= 500:
			logger.Error(line, args...)
		case status >= 400:
			logger.Warn(line, args...)
		default:
			logger.Debug(line, args...)
		}
	}
}

// NoStore keeps salary pages and slips out of shared caches.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
