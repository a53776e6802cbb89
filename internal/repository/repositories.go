package repository

import (
	"github.com/deppfellow/devi/internal/server"
)

// Repositories is a container for all repository instances.
//
// Services receive the container rather than individual repositories, so
// adding a repository never changes a service constructor signature.
type Repositories struct {
	Users *UserRepository
}

// NewRepositories constructs the repository container.
//
// Every repository shares the pool on s.DB and the logger on s.Logger.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Users: NewUserRepository(s.DB.Pool, s.Config.Users.Table, s.Logger),
	}
}
