package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/promptspec/api/internal/metrics"
)

// Metrics records request counts and latency per route template.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		collector.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
