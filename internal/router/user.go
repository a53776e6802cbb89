package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/devi/internal/handler"
)

func registerUserRoutes(g *echo.Group, h *handler.Handlers) {
	users := g.Group("/users")
	uh := h.Users

	users.GET("", handler.Handle(uh.Handler, uh.ListUsers, http.StatusOK))
	users.POST("", handler.Handle(uh.Handler, uh.CreateUser, http.StatusCreated))
	users.GET("/:id", handler.Handle(uh.Handler, uh.GetUser, http.StatusOK))
	users.PUT("/:id", handler.Handle(uh.Handler, uh.UpdateUser, http.StatusOK))
	users.DELETE("/:id", handler.HandleNoContent(uh.Handler, uh.DeleteUser, http.StatusNoContent))
}
