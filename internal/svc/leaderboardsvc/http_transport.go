package leaderboardsvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spillhus/gamesvc/internal/domain"
	"github.com/spillhus/gamesvc/internal/infra/logging"
	http_ "github.com/spillhus/gamesvc/internal/infra/transport/http"
)

// DefaultGameID is assumed when the leaderboard query names no game.
const DefaultGameID = "blackjack"

const (
	msgMissingScoreFields = "userId and gameId are required"
	msgUserNotFound       = "User not found"
	msgScoreFailed        = "Error updating score"
	msgScoreUpdated       = "Score updated successfully"
)

// updateScoreRequest carries the /api/updateScore body. Score is a delta, not
// an absolute value.
type updateScoreRequest struct {
	UserID int64  `json:"userId"`
	GameID string `json:"gameId"`
	Score  int64  `json:"score"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HTTPTransport handles HTTP requests for the leaderboard service.
type HTTPTransport struct {
	leaderboardSvc *LeaderboardService
	log            logging.Logger
}

// NewHTTPTransport creates a new HTTPTransport for the leaderboard service.
func NewHTTPTransport(leaderboardSvc *LeaderboardService) *HTTPTransport {
	return &HTTPTransport{
		leaderboardSvc: leaderboardSvc,
		log:            logging.GetLogger("svc.leaderboardsvc.http_transport"),
	}
}

// HandleGetLeaderboard returns the ranking for the requested game as a JSON
// array of {userId, username, score}, ordered by score descending. On store
// failure it answers 500 with an empty array. Unlike the auth endpoints,
// failures here carry non-2xx status codes; the leaderboard page treats
// anything but 200 as "show nothing".
func (ht *HTTPTransport) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleGetLeaderboard(w, r)
}

func (ht *HTTPTransport) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "leaderboard request failed", "error", err)
		} else {
			log.DebugContext(ctx, "leaderboard request handled")
		}
	}(r.Context())

	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		gameID = DefaultGameID
	}

	entries, err := ht.leaderboardSvc.GetRanking(r.Context(), gameID)
	if err != nil {
		_ = http_.WriteJSON(w, http.StatusInternalServerError, []domain.RankingEntry{})

		return fmt.Errorf("get ranking: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, entries)
}

// HandleUpdateScore applies a score delta for one (user, game) pair.
// Expects a JSON body {userId, gameId, score}; score may be negative.
func (ht *HTTPTransport) HandleUpdateScore(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleUpdateScore(w, r)
}

func (ht *HTTPTransport) handleUpdateScore(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "update score request failed", "error", err)
		} else {
			log.DebugContext(ctx, "update score request handled")
		}
	}(r.Context())

	req, err := decodeUpdateScoreRequest(r)
	if err != nil {
		_ = http_.WriteJSON(w, http.StatusBadRequest, statusResponse{
			Success: false,
			Message: msgMissingScoreFields,
		})

		return fmt.Errorf("decode request: %w", err)
	}

	log = log.With(logging.Group("leaderboard",
		"game", req.GameID,
		"user_id", req.UserID,
		"delta", req.Score,
	))

	if err := ht.leaderboardSvc.ApplyScoreDelta(r.Context(), req.UserID, req.GameID, req.Score); err != nil {
		status, message := updateScoreFailure(err)
		_ = http_.WriteJSON(w, status, statusResponse{Success: false, Message: message})

		return fmt.Errorf("apply score delta: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, statusResponse{Success: true, Message: msgScoreUpdated})
}

func updateScoreFailure(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingField):
		return http.StatusBadRequest, msgMissingScoreFields
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, msgUserNotFound
	default:
		return http.StatusInternalServerError, msgScoreFailed
	}
}

func decodeUpdateScoreRequest(r *http.Request) (updateScoreRequest, error) {
	var req updateScoreRequest

	if http_.IsJSONRequest(r) {
		if err := http_.DecodeJSON(r, &req); err != nil {
			return updateScoreRequest{}, err
		}

		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return updateScoreRequest{}, fmt.Errorf("parse form: %w", err)
	}

	userID, err := strconv.ParseInt(r.PostFormValue("userId"), 10, 64)
	if err != nil {
		return updateScoreRequest{}, fmt.Errorf("parse userId: %w", err)
	}

	delta, err := strconv.ParseInt(r.PostFormValue("score"), 10, 64)
	if err != nil {
		return updateScoreRequest{}, fmt.Errorf("parse score: %w", err)
	}

	return updateScoreRequest{
		UserID: userID,
		GameID: r.PostFormValue("gameId"),
		Score:  delta,
	}, nil
}
