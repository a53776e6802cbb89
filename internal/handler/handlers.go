package handler

import (
	"github.com/deppfellow/devi/internal/server"
	"github.com/deppfellow/devi/internal/service"
)

// Handlers groups all HTTP handlers so the router receives a single value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Users   *UserHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Users:   NewUserHandler(s, services.Users),
	}
}
