package avatarsvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spillhus/gamesvc/internal/infra/logging"
)

// ErrNoUsername is returned when the username is missing from the request.
var ErrNoUsername = errors.New("no username")

// HTTPTransport handles HTTP requests for avatar rendering.
type HTTPTransport struct {
	avatarSvc *AvatarService
	log       logging.Logger
}

// NewHTTPTransport creates a new HTTPTransport for the avatar service.
func NewHTTPTransport(avatarSvc *AvatarService) *HTTPTransport {
	return &HTTPTransport{
		avatarSvc: avatarSvc,
		log:       logging.GetLogger("svc.avatarsvc.http_transport"),
	}
}

// HandleGetAvatar renders the identicon PNG for the requested username,
// optionally scaled to the requested size.
func (ht *HTTPTransport) HandleGetAvatar(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleGetAvatar(w, r)
}

func (ht *HTTPTransport) handleGetAvatar(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "avatar request failed", "error", err)
		} else {
			log.DebugContext(ctx, "avatar request handled")
		}
	}(r.Context())

	username := r.URL.Query().Get("username")
	if username == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return ErrNoUsername
	}

	var size int
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		size, err = strconv.Atoi(sizeStr)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

			return fmt.Errorf("parse size: %w", err)
		}
	}

	avatar, err := ht.avatarSvc.Render(username, size)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return fmt.Errorf("render avatar: %w", err)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400") // avatars are deterministic

	if _, err := w.Write(avatar); err != nil {
		return fmt.Errorf("write avatar: %w", err)
	}

	return nil
}
