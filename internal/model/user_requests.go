package model

import (
	"github.com/deppfellow/devi/internal/validation"
)

// ListUsersRequest lists users. At most one of Name and PublicKey may be set;
// either narrows the result to the single matching user.
type ListUsersRequest struct {
	Name      string `query:"name" validate:"omitempty,max=255"`
	PublicKey string `query:"public_key" validate:"omitempty,max=1024"`
}

func (r *ListUsersRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Name != "" && r.PublicKey != "" {
		return validation.CustomValidationErrors{
			{Field: "public_key", Message: "cannot be combined with name"},
		}
	}
	return nil
}

// GetUserRequest addresses a single user by id.
type GetUserRequest struct {
	ID int64 `param:"id" validate:"required,min=1"`
}

func (r *GetUserRequest) Validate() error {
	return validation.Struct(r)
}

// CreateUserRequest is the body of POST /users. Password arrives hashed.
type CreateUserRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=255"`
	Email      string `json:"email" validate:"required,email,max=320"`
	Password   string `json:"password" validate:"required,min=8"`
	PublicKey  string `json:"public_key" validate:"required,printascii,max=1024"`
	PrivateKey string `json:"private_key" validate:"required,max=4096"`
}

func (r *CreateUserRequest) Validate() error {
	return validation.Struct(r)
}

// User builds the unsaved user described by the request.
func (r *CreateUserRequest) User() User {
	return User{
		Name:       r.Name,
		Email:      r.Email,
		Password:   r.Password,
		PublicKey:  r.PublicKey,
		PrivateKey: r.PrivateKey,
	}
}

// UpdateUserRequest is the body of PUT /users/:id. Every field is replaced.
type UpdateUserRequest struct {
	ID         int64  `param:"id" json:"-" validate:"required,min=1"`
	Name       string `json:"name" validate:"required,min=1,max=255"`
	Email      string `json:"email" validate:"required,email,max=320"`
	Password   string `json:"password" validate:"required,min=8"`
	PublicKey  string `json:"public_key" validate:"required,printascii,max=1024"`
	PrivateKey string `json:"private_key" validate:"required,max=4096"`
}

func (r *UpdateUserRequest) Validate() error {
	return validation.Struct(r)
}

// DeleteUserRequest addresses the user to delete.
type DeleteUserRequest struct {
	ID int64 `param:"id" validate:"required,min=1"`
}

func (r *DeleteUserRequest) Validate() error {
	return validation.Struct(r)
}
