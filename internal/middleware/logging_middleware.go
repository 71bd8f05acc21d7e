package middleware

import (
	"net/url"
	"time"

	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
	"github.com/caterbazar/caterbazar-console/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
	loggerKey       = "logger"
)

// Query parameters never written to logs.
var redactedParams = []string{"token", ConsoleSessionQuery}

// LoggingMiddleware attaches a request-scoped logger and logs each completed
// request once.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		log := logger.WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(loggerKey, log)

		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"status":     status,
			"latency_ms": time.Since(started).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if q := redactQuery(c.Request.URL.Query()); q != "" {
			fields["query"] = q
		}
		if consoleID := c.GetString(ConsoleIDKey); consoleID != "" {
			fields["console_id"] = consoleID
		}
		if c.Writer.Header().Get(apperrors.SessionExpiredHeader) != "" {
			fields["session_expired"] = true
		}

		switch {
		case status >= 500:
			log.Error("Request failed", nil, fields)
		case status >= 400:
			log.Warn("Request rejected", fields)
		default:
			log.Info("Request completed", fields)
		}
	}
}

func redactQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	for _, key := range redactedParams {
		if values.Has(key) {
			values.Set(key, "REDACTED")
		}
	}
	return values.Encode()
}

// GetLoggerFromContext returns the request logger, or the global one outside a
// logged request.
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if l, ok := c.Value(loggerKey).(*logger.Logger); ok {
		return l
	}
	return logger.Get()
}
