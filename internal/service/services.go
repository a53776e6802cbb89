package service

import (
	"github.com/deppfellow/devi/internal/repository"
	"github.com/deppfellow/devi/internal/server"
)

// Services is a container for all business services.
type Services struct {
	Users *UserService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Users: NewUserService(s, repos.Users),
	}, nil
}
