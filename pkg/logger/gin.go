package logger

import (
	"log/slog"
	"time"

	"StripeDiscordRelay/pkg/correlation"

	"github.com/gin-gonic/gin"
)

// CorrelationMiddleware takes X-Correlation-ID from the request (or makes a
// new one), stores it in the request context and echoes it back.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		corrID := correlation.FromHeader(c.GetHeader(correlation.HeaderName))

		ctx := correlation.WithID(c.Request.Context(), corrID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(correlation.HeaderName, corrID)

		c.Next()
	}
}

// RequestLogger logs one record per request. Bodies are not logged: webhook
// payloads carry customer emails.
func RequestLogger(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= 400 {
			level = slog.LevelWarn
		}

		l.LogAttrs(c.Request.Context(), level, "HTTP Request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Int64("request_bytes", c.Request.ContentLength),
			slog.Int("response_bytes", c.Writer.Size()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}
