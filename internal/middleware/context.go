package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/devi/internal/server"
)

// LoggerKey is the Echo context key holding the request-scoped logger.
const LoggerKey = "logger"

// ContextEnhancer enriches each request with a request-scoped logger.
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer creates a new ContextEnhancer using the app Server container.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext builds a child logger carrying request_id, method, path and
// ip, and stores it in both the Echo context and the request context.
//
// It must run after RequestID.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			c.Set(LoggerKey, &contextLogger)

			// zerolog.Ctx(ctx) returns this logger in code that only sees a context.
			ctx := contextLogger.WithContext(c.Request().Context())
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetLogger retrieves the request-scoped logger from Echo context.
//
// If EnhanceContext didn't run, it returns a no-op logger.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}
