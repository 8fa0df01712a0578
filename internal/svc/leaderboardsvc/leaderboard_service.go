package leaderboardsvc

import (
	"context"
	"fmt"

	"github.com/spillhus/gamesvc/internal/domain"
	"github.com/spillhus/gamesvc/internal/infra/logging"
	"github.com/spillhus/gamesvc/internal/repo/score"
)

// LeaderboardService reads rankings and applies score deltas.
type LeaderboardService struct {
	ScoreRepo score.Repository
	Log       logging.Logger
}

// NewLeaderboardService creates a new LeaderboardService over the given score
// repository.
func NewLeaderboardService(scoreRepo score.Repository) *LeaderboardService {
	return &LeaderboardService{
		ScoreRepo: scoreRepo,
		Log:       logging.GetLogger("svc.leaderboardsvc.leaderboard_service"),
	}
}

// GetRanking returns the ranking entries for gameID, ordered by score
// descending. A game without records yields an empty slice, not an error.
func (s *LeaderboardService) GetRanking(ctx context.Context, gameID string) (_ []domain.RankingEntry, err error) {
	log := s.Log.With(logging.Group("leaderboard", "game", gameID))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "get ranking failed", "error", err)
		} else {
			log.DebugContext(ctx, "ranking fetched")
		}
	}()

	if gameID == "" {
		return nil, fmt.Errorf("%w: game id", domain.ErrMissingField)
	}

	entries, err := s.ScoreRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list by game: %w", err)
	}

	return entries, nil
}

// ApplyScoreDelta adds delta to the score held for (userID, gameID), creating
// the record with score = delta when none exists. Negative deltas decrease the
// score; callers are trusted on bounds. Returns ErrUserNotFound when userID
// does not reference an existing user.
func (s *LeaderboardService) ApplyScoreDelta(
	ctx context.Context, userID int64, gameID string, delta int64,
) (err error) {
	log := s.Log.With(logging.Group("leaderboard",
		"game", gameID,
		"user_id", userID,
		"delta", delta,
	))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "apply score delta failed", "error", err)
		} else {
			log.InfoContext(ctx, "score delta applied")
		}
	}()

	if userID <= 0 {
		return fmt.Errorf("%w: user id", domain.ErrMissingField)
	}

	if gameID == "" {
		return fmt.Errorf("%w: game id", domain.ErrMissingField)
	}

	if err := s.ScoreRepo.ApplyDelta(ctx, userID, gameID, delta); err != nil {
		return fmt.Errorf("apply delta: %w", err)
	}

	return nil
}
