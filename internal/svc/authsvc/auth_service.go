package authsvc

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/spillhus/gamesvc/internal/domain"
	"github.com/spillhus/gamesvc/internal/infra/logging"
	"github.com/spillhus/gamesvc/internal/repo/user"
)

// AuthConfig contains configuration parameters for the authentication service.
type AuthConfig struct {
	// BcryptCost is the bcrypt cost factor used when hashing new passwords
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// AuthService handles user registration and login against the user repository.
type AuthService struct {
	Config   AuthConfig
	UserRepo user.Repository
	Log      logging.Logger
}

// NewAuthService creates a new AuthService over the given user repository.
func NewAuthService(userRepo user.Repository, cfg AuthConfig) *AuthService {
	return &AuthService{
		Config:   cfg,
		UserRepo: userRepo,
		Log:      logging.GetLogger("svc.authsvc.auth_service"),
	}
}

// Register creates a new user account with the given username and password.
// Returns ErrMissingField if any argument is empty, ErrPasswordMismatch if the
// confirmation does not match, and ErrUserAlreadyExists if the username is
// taken. The password is bcrypt-hashed before storage; the plaintext never
// leaves this method.
func (s *AuthService) Register(ctx context.Context, username, password, confirm string) (err error) {
	log := s.Log.With(logging.Group("user", "username", username))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "register failed", "error", err)
		} else {
			log.InfoContext(ctx, "user registered")
		}
	}()

	if username == "" || password == "" || confirm == "" {
		return fmt.Errorf("%w: username, password and confirmation are required", domain.ErrMissingField)
	}

	if password != confirm {
		return domain.ErrPasswordMismatch
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.Config.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.UserRepo.CreateUser(ctx, username, passwordHash); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// Login verifies the given credentials and returns the matching user.
// A missing user and a wrong password both surface as ErrInvalidCredentials so
// that callers cannot probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (_ *domain.User, err error) {
	log := s.Log.With(logging.Group("user", "username", username))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "login failed", "error", err)
		} else {
			log.InfoContext(ctx, "login successful")
		}
	}()

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrMissingField)
	}

	account, ok, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, errors.Join(domain.ErrInvalidCredentials, err)
		}

		return nil, fmt.Errorf("get user: %w", err)
	} else if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, errors.Join(domain.ErrInvalidCredentials, err)
	}

	return account, nil
}
