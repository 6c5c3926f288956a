package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flowstate-app/flowstate/server/internal/observability"
)

// RequestContext attaches an observability.RequestContext to every request
// and logs its completion. The request ID is taken from X-Request-ID when the
// client or an upstream middleware set one.
func RequestContext(logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			reqCtx := observability.NewRequestContextWithID(logger, requestID, c.Path())
			c.Response().Header().Set(echo.HeaderXRequestID, reqCtx.RequestID)
			c.SetRequest(c.Request().WithContext(observability.WithRequestContext(c.Request().Context(), reqCtx)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			reqCtx.Info("http request",
				slog.String("method", c.Request().Method),
				slog.String("uri", c.Request().RequestURI),
				slog.Int("status", c.Response().Status),
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
			)
			if reqCtx.Duration() > time.Second {
				reqCtx.Warn("slow request", slog.String("uri", c.Request().RequestURI))
			}
			return nil
		}
	}
}
