package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/suchimauz/working-days-api/internal/core/ports/out"
)

// RequestLogger tags every request with an id and logs its outcome in the
// service's event style.
func RequestLogger(logger out.LoggerPort) gin.HandlerFunc {
	requestLogger := logger.WithModule("HttpServer")

	return func(ctx *gin.Context) {
		requestID := uuid.NewString()
		ctx.Set("requestId", requestID)
		ctx.Header("X-Request-Id", requestID)

		start := time.Now()
		ctx.Next()

		requestLogger.Info("http.request.finished", out.LogFields{
			"requestId":  requestID,
			"method":     ctx.Request.Method,
			"path":       ctx.Request.URL.Path,
			"status":     ctx.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	}
}
