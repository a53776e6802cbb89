package handler

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/devi/internal/server"
)

//go:embed static/openapi.json
var openAPIDocument []byte

// OpenAPIHandler serves the OpenAPI document describing the HTTP API.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPI writes the embedded document. Caching is disabled so a new
// deployment's document is picked up immediately.
func (h *OpenAPIHandler) ServeOpenAPI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, openAPIDocument)
}
