package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/devi/internal/model"
	"github.com/deppfellow/devi/internal/server"
	"github.com/deppfellow/devi/internal/service"
)

// UserHandler serves /api/v1/users.
type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

func (h *UserHandler) ListUsers(c echo.Context, req *model.ListUsersRequest) ([]model.User, error) {
	return h.users.List(c.Request().Context(), req)
}

func (h *UserHandler) GetUser(c echo.Context, req *model.GetUserRequest) (model.User, error) {
	return h.users.Get(c.Request().Context(), req.ID)
}

func (h *UserHandler) CreateUser(c echo.Context, req *model.CreateUserRequest) (model.User, error) {
	return h.users.Create(c.Request().Context(), req)
}

func (h *UserHandler) UpdateUser(c echo.Context, req *model.UpdateUserRequest) (model.User, error) {
	return h.users.Update(c.Request().Context(), req)
}

func (h *UserHandler) DeleteUser(c echo.Context, req *model.DeleteUserRequest) error {
	return h.users.Delete(c.Request().Context(), req.ID)
}
