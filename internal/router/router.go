// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/devi/internal/handler"
	"github.com/deppfellow/devi/internal/middleware"
	"github.com/deppfellow/devi/internal/server"
)

// NewRouter builds the Echo instance with the global middleware chain and
// every route registered.
//
// Middleware order matters: the request ID must exist before the
// request-scoped logger is built, and the logger before anything logs.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerUserRoutes(v1, h)

	return router
}
