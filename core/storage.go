package core

import "context"

// CredentialStore is the read side of the persistence layer used during
// authentication and identity resolution.
//
// Both lookups return ErrUserNotFound when no such user exists. Any other
// error is treated as an infrastructure fault. Implementations must be safe
// for concurrent use and must not create users implicitly.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// UserRegistry creates user records. CreateUser fills in ID and timestamps
// and returns ErrUserExists for a duplicate username.
type UserRegistry interface {
	CreateUser(ctx context.Context, u *User) error
}

// UserStorage is the full storage port an adapter provides.
type UserStorage interface {
	CredentialStore
	UserRegistry
}
