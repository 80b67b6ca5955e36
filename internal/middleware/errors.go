package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Common error codes
const (
	ErrCodeBadRequest            = "BAD_REQUEST"
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeInternalError         = "INTERNAL_ERROR"
	ErrCodeRateLimited           = "RATE_LIMITED"
	ErrCodeCircuitOpen           = "CIRCUIT_OPEN"
	ErrCodeEmptyPrompt           = "EMPTY_PROMPT"
	ErrCodeMisconfigured         = "MISCONFIGURED"
	ErrCodeProviderError         = "PROVIDER_ERROR"
	ErrCodeEmptyProviderResponse = "EMPTY_PROVIDER_RESPONSE"
	ErrCodeNoJSONFound           = "NO_JSON_FOUND"
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodeSchemaViolation       = "SCHEMA_VIOLATION"
)

// RespondError sends the error envelope {"error": message, "code": code, ...context}
// and aborts the chain.
func RespondError(c *gin.Context, status int, code string, message string, context gin.H) {
	body := gin.H{}
	for k, v := range context {
		body[k] = v
	}
	body["error"] = message
	body["code"] = code
	c.AbortWithStatusJSON(status, body)
}

// RespondErrorWithRetry sends an error envelope with a retry hint in milliseconds.
func RespondErrorWithRetry(c *gin.Context, status int, code string, message string, retryAfterMs int) {
	RespondError(c, status, code, message, gin.H{"retry_after_ms": retryAfterMs})
}

// BadRequest sends a 400 error
func BadRequest(c *gin.Context, message string) {
	RespondError(c, http.StatusBadRequest, ErrCodeBadRequest, message, nil)
}

// Unauthorized sends a 401 error
func Unauthorized(c *gin.Context, message string) {
	RespondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, message, nil)
}

// InternalError sends a 500 error
func InternalError(c *gin.Context, message string) {
	RespondError(c, http.StatusInternalServerError, ErrCodeInternalError, message, nil)
}

// Recovery turns a handler panic into the standard 500 envelope.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.String("request_id", GetRequestID(c)),
			zap.Any("panic", recovered),
		)
		InternalError(c, "Internal server error")
	})
}
