package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags the request context with a request id and logs one
// line per request once the handler chain has finished.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequest(c.Request.Context(), requestID))

		c.Next()

		status := c.Writer.Status()
		event := logger.Info(c.Request.Context())
		if status >= 500 {
			event = logger.Error(c.Request.Context())
		} else if status >= 400 {
			event = logger.Warn(c.Request.Context())
		}
		if userID, ok := CurrentUserID(c); ok {
			event = event.Uint("user_id", userID)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request completed")
	}
}
