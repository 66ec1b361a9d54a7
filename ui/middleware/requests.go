package middleware

import (
	"time"

	"covidash/internal"

	"github.com/gin-gonic/gin"
)

// RequestRecorder observes completed HTTP requests
type RequestRecorder interface {
	RecordHTTPRequest(route, method string, status int, duration time.Duration)
}

// RecordRequests reports every request by its route template, so
// /api/charts/:id stays a single series
func RecordRequests(recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		recorder.RecordHTTPRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

// RequestLogger logs one line per request at debug level, and at warn
// level for server errors
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start).Round(time.Microsecond)
		if status >= 500 {
			logger.Warn("[HTTP] %s %s -> %d in %s: %s", c.Request.Method, c.Request.URL.Path, status, elapsed, c.Errors.String())
			return
		}
		logger.Debug("[HTTP] %s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
	}
}
