package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUserNotFound is returned by lookups that match no user document.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when a create violates the unique email index.
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrStateNotFound is returned when an OAuth state is unknown or already consumed.
	ErrStateNotFound = errors.New("auth state not found or expired")
)

// UserRepository defines the persistence operations the auth flows need.
type UserRepository interface {
	// CreateUser inserts a new user. It assigns ID/CreatedAt/UpdatedAt when
	// unset and returns ErrEmailTaken on a duplicate email.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByEmail returns ErrUserNotFound when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID returns ErrUserNotFound when the id matches no document.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// SetGoogleID attaches a Google subject id to the user. It is a no-op
	// when the user already has one: a linked identity is never overwritten.
	SetGoogleID(ctx context.Context, userID, googleID string) error

	// UpdateLastLogin records a successful authentication.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// AuthStateRepository stores the transient state of an OAuth redirect
// round-trip. Entries are single use and expire on their own.
type AuthStateRepository interface {
	// Put stores a state value until expiresAt.
	Put(ctx context.Context, state string, expiresAt time.Time) error

	// Take consumes a state value. It returns ErrStateNotFound when the
	// state is unknown, expired, or was already taken.
	Take(ctx context.Context, state string) error
}
