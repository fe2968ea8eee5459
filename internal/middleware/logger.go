package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"

	"github.com/fina-agent/fina-console/pkg/logger"
)

// RequestIDKey is the header carrying the request id
const RequestIDKey = "X-Request-ID"

// Logger logs every request except health checks and stores a request-scoped
// logger in the context.
func Logger() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		path := string(c.Path())

		skipLogging := strings.HasSuffix(path, "/health")

		requestID := string(c.Request.Header.Peek(RequestIDKey))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Response.Header.Set(RequestIDKey, requestID)

		reqLogger := logger.WithRequestID(slog.Default(), requestID).With(
			"method", string(c.Method()),
			"path", path,
			"client_ip", c.ClientIP(),
		)
		ctx = logger.WithContext(ctx, reqLogger)

		if !skipLogging {
			reqLogger.Info("request started")
		}

		c.Next(ctx)

		if skipLogging {
			return
		}

		latency := time.Since(start)
		statusCode := c.Response.StatusCode()
		done := reqLogger.With(
			"status", statusCode,
			"latency", latency.String(),
			"latency_ms", latency.Milliseconds(),
		)

		switch {
		case statusCode >= 500:
			done.Error("request completed with server error")
		case statusCode >= 400:
			done.Warn("request completed with client error")
		default:
			done.Info("request completed successfully")
		}
	}
}

// GetRequestID returns the request id set by Logger
func GetRequestID(c *app.RequestContext) string {
	return string(c.Response.Header.Peek(RequestIDKey))
}
