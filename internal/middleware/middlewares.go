package middleware

import (
	"github.com/deppfellow/devi/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server.
//
// Build once in the router, reuse everywhere.
type Middlewares struct {
	// Global holds common middleware used across the whole API:
	// CORS, request logging, recovery, secure headers, and the global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer attaches a request-scoped logger
	// (request_id, method, path, ip).
	ContextEnhancer *ContextEnhancer

	// RateLimit enforces the per-client request rate from config.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components using the application container.
func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
