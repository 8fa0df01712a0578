package user

import (
	"context"

	"github.com/spillhus/gamesvc/internal/domain"
)

// Repository defines the interface for user data persistence.
type Repository interface {
	// CreateUser adds a new user and returns its assigned id.
	// Returns ErrUserAlreadyExists if the username is already taken; the
	// uniqueness check happens inside the store so that two concurrent
	// registrations of the same username cannot both succeed.
	CreateUser(ctx context.Context, username string, passwordHash []byte) (int64, error)

	// GetUserByUsername retrieves a user by their username.
	// Returns the user object and true if found, or nil and false if not found.
	// Returns an error if the operation fails.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error)

	// GetUserByID retrieves a user by id.
	// Returns the user object and true if found, or nil and false if not found.
	GetUserByID(ctx context.Context, id int64) (*domain.User, bool, error)
}
