package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/devi/internal/errs"
	"github.com/deppfellow/devi/internal/model"
	"github.com/deppfellow/devi/internal/server"
	"github.com/deppfellow/devi/internal/sqlerr"
)

// UserStore is the persistence UserService needs. *repository.UserRepository
// implements it.
type UserStore interface {
	Find(ctx context.Context, id int64) (model.User, bool, error)
	FindByName(ctx context.Context, name string) (model.User, bool, error)
	FindByPublicKey(ctx context.Context, publicKey string) (model.User, bool, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user model.User) error
	Delete(ctx context.Context, user model.User) error
}

// UserService owns the user lifecycle: it stamps timestamps and turns
// absent users into 404s.
type UserService struct {
	server *server.Server
	store  UserStore
	table  string
	now    func() time.Time
}

func NewUserService(s *server.Server, store UserStore) *UserService {
	return &UserService{
		server: s,
		store:  store,
		table:  s.Config.Users.Table,
		now:    time.Now,
	}
}

// List returns every user, most recently modified first, or the single user
// matching the name or public key filter.
func (s *UserService) List(ctx context.Context, req *model.ListUsersRequest) ([]model.User, error) {
	var (
		user  model.User
		found bool
		err   error
	)

	switch {
	case req.Name != "":
		user, found, err = s.store.FindByName(ctx, req.Name)
	case req.PublicKey != "":
		user, found, err = s.store.FindByPublicKey(ctx, req.PublicKey)
	default:
		users, err := s.store.FindAll(ctx)
		if err != nil {
			return nil, s.wrap(err, "list users")
		}
		return users, nil
	}

	if err != nil {
		return nil, s.wrap(err, "find user")
	}
	if !found {
		return []model.User{}, nil
	}
	return []model.User{user}, nil
}

// Get returns the user with id.
func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	user, found, err := s.store.Find(ctx, id)
	if err != nil {
		return model.User{}, s.wrap(err, "get user")
	}
	if !found {
		return model.User{}, userNotFound()
	}
	return user, nil
}

// Create persists a new user with both timestamps set to now.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (model.User, error) {
	now := s.timestamp()

	user := req.User()
	user.DateCreated = &now
	user.DateModified = &now

	if err := s.store.Create(ctx, &user); err != nil {
		return model.User{}, s.wrap(err, "create user")
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", user.GetID()).Msg("user created")
	return user, nil
}

// Update replaces the user's fields, keeping its creation time.
func (s *UserService) Update(ctx context.Context, req *model.UpdateUserRequest) (model.User, error) {
	user, err := s.Get(ctx, req.ID)
	if err != nil {
		return model.User{}, err
	}

	now := s.timestamp()
	user.Name = req.Name
	user.Email = req.Email
	user.Password = req.Password
	user.PublicKey = req.PublicKey
	user.PrivateKey = req.PrivateKey
	user.DateModified = &now

	if err := s.store.Update(ctx, user); err != nil {
		return model.User{}, s.wrap(err, "update user")
	}
	return user, nil
}

// Delete removes the user with id.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, user); err != nil {
		return s.wrap(err, "delete user")
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// timestamp is now at the precision storage keeps.
func (s *UserService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func (s *UserService) wrap(err error, op string) error {
	return sqlerr.WithTable(errors.Wrap(err, op), s.table)
}

func userNotFound() error {
	code := "USER_NOT_FOUND"
	return errs.NewNotFoundError("User not found", true, &code)
}
