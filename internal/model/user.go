// Package model contains the domain entities persisted by the repositories.
package model

import "time"

// User is an account holder. ID is nil until the user has been persisted;
// storage assigns it. Timestamps are nil when unset.
//
// Password is stored as given: hashing happens before a User reaches the
// repository.
type User struct {
	ID           *int64     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	Password     string     `db:"password" json:"-"`
	PublicKey    string     `db:"public_key" json:"public_key"`
	PrivateKey   string     `db:"private_key" json:"-"`
	DateCreated  *time.Time `db:"date_created" json:"date_created"`
	DateModified *time.Time `db:"date_modified" json:"date_modified"`
}

// IsPersisted reports whether storage has assigned the user an id.
func (u User) IsPersisted() bool {
	return u.ID != nil
}

// GetID returns the id, or 0 for a user that has not been persisted.
func (u User) GetID() int64 {
	if u.ID == nil {
		return 0
	}
	return *u.ID
}
