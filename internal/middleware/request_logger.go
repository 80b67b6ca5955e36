package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const outcomeKey = "generation_outcome"

// quietRoutes are polled by orchestrators and scrapers. Successful hits are
// not logged.
var quietRoutes = map[string]struct{}{
	"/health":      {},
	"/health/deep": {},
	"/metrics":     {},
}

// SetOutcome records the generation outcome ("completed" or a failure kind)
// so the request log line carries it.
func SetOutcome(c *gin.Context, outcome string) {
	c.Set(outcomeKey, outcome)
}

// RequestLogger logs one line per request at a level chosen by status:
// Error for 5xx and for upstream 502s, Warn for other 4xx, Info otherwise.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if _, quiet := quietRoutes[route]; quiet && status < 400 {
			return
		}

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if route == "" {
			fields = append(fields, zap.String("path", c.Request.URL.Path))
		}
		if outcome := c.GetString(outcomeKey); outcome != "" {
			fields = append(fields, zap.String("outcome", outcome))
		}
		if userID, ok := GetUserID(c); ok {
			fields = append(fields, zap.String("user_id", userID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("request rejected", fields...)
		default:
			logger.Info("request served", fields...)
		}
	}
}
