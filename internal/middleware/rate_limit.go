package middleware

import (
	"math"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/deppfellow/devi/internal/errs"
	"github.com/deppfellow/devi/internal/server"
)

// rateLimitExpiry is how long an idle client's bucket is kept.
const rateLimitExpiry = 3 * time.Minute

// RateLimitMiddleware enforces Config.Server.RateLimit requests per second
// per client IP.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the limiting middleware, or a pass-through when the
// configured rate is zero.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	limit := r.server.Config.Server.RateLimit
	if limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit),
		Burst:     int(math.Max(1, math.Ceil(limit))),
		ExpiresIn: rateLimitExpiry,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewBadRequestError("Could not identify client", false, nil, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c, identifier)
			return errs.NewTooManyRequestsError("Rate limit exceeded")
		},
	})
}

// RecordRateLimitHit logs a rejected request.
func (r *RateLimitMiddleware) RecordRateLimitHit(c echo.Context, identifier string) {
	GetLogger(c).Warn().
		Str("endpoint", c.Path()).
		Str("client", identifier).
		Msg("rate limit hit")
}
