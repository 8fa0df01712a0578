package authsvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spillhus/gamesvc/internal/domain"
	"github.com/spillhus/gamesvc/internal/infra/logging"
	http_ "github.com/spillhus/gamesvc/internal/infra/transport/http"
)

// User-facing messages. Raw store or bcrypt errors are logged but never
// forwarded to the client.
const (
	msgMissingFields      = "All fields are required."
	msgPasswordMismatch   = "Passwords do not match."
	msgUsernameTaken      = "Username already taken."
	msgRegisterFailed     = "Error creating user account."
	msgRegistered         = "Registration successful! Welcome, %s!"
	msgMissingCredentials = "Username and password are required"
	msgInvalidCredentials = "Invalid username or password"
	msgLoginFailed        = "Database error occurred"
	msgLoggedIn           = "Login successful"
)

// registerRequest carries the /register form or JSON body. Email is required
// by the form contract but not persisted.
type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm-password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// HTTPTransport handles HTTP requests for registration and login.
type HTTPTransport struct {
	authSvc *AuthService
	log     logging.Logger
}

// NewHTTPTransport creates a new HTTPTransport for the auth service.
func NewHTTPTransport(authSvc *AuthService) *HTTPTransport {
	return &HTTPTransport{
		authSvc: authSvc,
		log:     logging.GetLogger("svc.authsvc.http_transport"),
	}
}

// HandleRegister processes registration requests.
// Expects username, email, password and confirm-password fields, as form data
// or JSON. Like the login endpoint it always answers 200 with a success flag,
// matching the contract the site's frontend expects.
func (ht *HTTPTransport) HandleRegister(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleRegister(w, r)
}

func (ht *HTTPTransport) handleRegister(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "register request failed", "error", err)
		} else {
			log.DebugContext(ctx, "register request handled")
		}
	}(r.Context())

	req, err := decodeRegisterRequest(r)
	if err != nil {
		_ = http_.WriteJSON(w, http.StatusOK, statusResponse{Success: false, Message: msgMissingFields})

		return fmt.Errorf("decode request: %w", err)
	}

	log = log.With(logging.Group("user", "username", req.Username))

	// Email is part of the form contract even though accounts do not store it.
	if req.Email == "" {
		_ = http_.WriteJSON(w, http.StatusOK, statusResponse{Success: false, Message: msgMissingFields})

		return fmt.Errorf("%w: email", domain.ErrMissingField)
	}

	if err := ht.authSvc.Register(r.Context(), req.Username, req.Password, req.ConfirmPassword); err != nil {
		_ = http_.WriteJSON(w, http.StatusOK, statusResponse{
			Success: false,
			Message: registerFailureMessage(err),
		})

		return fmt.Errorf("register: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, statusResponse{
		Success: true,
		Message: fmt.Sprintf(msgRegistered, req.Username),
	})
}

func registerFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingField):
		return msgMissingFields
	case errors.Is(err, domain.ErrPasswordMismatch):
		return msgPasswordMismatch
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return msgUsernameTaken
	default:
		return msgRegisterFailed
	}
}

// HandleLogin processes login requests.
// Expects username and password fields; returns the user id and username on
// success, never the password hash.
func (ht *HTTPTransport) HandleLogin(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleLogin(w, r)
}

func (ht *HTTPTransport) handleLogin(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "login request failed", "error", err)
		} else {
			log.DebugContext(ctx, "login request handled")
		}
	}(r.Context())

	req, err := decodeLoginRequest(r)
	if err != nil {
		_ = http_.WriteJSON(w, http.StatusOK, statusResponse{Success: false, Message: msgMissingCredentials})

		return fmt.Errorf("decode request: %w", err)
	}

	log = log.With(logging.Group("user", "username", req.Username))

	account, err := ht.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		_ = http_.WriteJSON(w, http.StatusOK, statusResponse{
			Success: false,
			Message: loginFailureMessage(err),
		})

		return fmt.Errorf("login: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, loginResponse{
		Success:  true,
		Message:  msgLoggedIn,
		UserID:   account.ID,
		Username: account.Username,
	})
}

func loginFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingField):
		return msgMissingCredentials
	case errors.Is(err, domain.ErrInvalidCredentials):
		return msgInvalidCredentials
	default:
		return msgLoginFailed
	}
}

func decodeRegisterRequest(r *http.Request) (registerRequest, error) {
	var req registerRequest

	if http_.IsJSONRequest(r) {
		if err := http_.DecodeJSON(r, &req); err != nil {
			return registerRequest{}, err
		}

		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return registerRequest{}, fmt.Errorf("parse form: %w", err)
	}

	return registerRequest{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm-password"),
	}, nil
}

func decodeLoginRequest(r *http.Request) (loginRequest, error) {
	var req loginRequest

	if http_.IsJSONRequest(r) {
		if err := http_.DecodeJSON(r, &req); err != nil {
			return loginRequest{}, err
		}

		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return loginRequest{}, fmt.Errorf("parse form: %w", err)
	}

	return loginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}, nil
}
