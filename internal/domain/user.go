package domain

import "errors"

var (
	// ErrUserAlreadyExists is returned when trying to create a user with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the username/password combination is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingField is returned when a required request field is empty or absent.
	ErrMissingField = errors.New("missing field")
	// ErrPasswordMismatch is returned when password and confirmation do not match.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// User represents a registered account.
type User struct {
	ID           int64  // Unique identifier
	Username     string // Login username, unique and case-sensitive
	PasswordHash []byte // bcrypt digest, never exposed outside the auth service
	CreatedAt    int64  // Unix timestamp of account creation
}
