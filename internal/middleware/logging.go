package middleware

import (
	"context"
	"log/slog"
	"time"

	"lumen/internal/observability"

	"github.com/gofiber/fiber/v2"
)

type contextKey string

// UserIDKey carries the authenticated user ID in the request context.
const UserIDKey contextKey = "user_id"

// ctxHandler injects values from the request context into every log
// record so correlation and user IDs survive into downstream lines.
type ctxHandler struct {
	slog.Handler
}

func (h ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := observability.ExtractCorrelationID(ctx); id != "" {
		r.AddAttrs(slog.String("correlation_id", id))
	}
	if userID, ok := ctx.Value(UserIDKey).(uint); ok {
		r.AddAttrs(slog.Uint64("user_id", uint64(userID)))
	}
	return h.Handler.Handle(ctx, r)
}

// ContextMiddleware copies the request ID assigned by the requestid
// middleware into the user context so repository and service logging
// can pick it up.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, _ := c.Locals("requestid").(string)
		c.SetUserContext(observability.WithCorrelationID(c.UserContext(), requestID))
		return c.Next()
	}
}

// StructuredLogger emits one JSON access log line per request.
func StructuredLogger() fiber.Handler {
	accessLog := slog.New(ctxHandler{Handler: observability.GlobalLogger.Handler()})

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.IP()),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		accessLog.LogAttrs(c.UserContext(), slog.LevelInfo, "request", attrs...)
		return err
	}
}
