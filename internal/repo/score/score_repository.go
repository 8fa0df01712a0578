package score

import (
	"context"

	"github.com/spillhus/gamesvc/internal/domain"
)

// Repository defines the interface for leaderboard score persistence.
type Repository interface {
	// ApplyDelta adds delta to the score stored for (userID, gameID), creating
	// the record with score = delta if none exists. The read-modify-write is a
	// single atomic store operation: concurrent deltas for the same key never
	// lose updates. Returns ErrUserNotFound if userID does not reference an
	// existing user.
	ApplyDelta(ctx context.Context, userID int64, gameID string, delta int64) error

	// ListByGame returns all ranking entries for gameID joined with usernames,
	// ordered by score descending. An unknown gameID yields an empty slice,
	// not an error.
	ListByGame(ctx context.Context, gameID string) ([]domain.RankingEntry, error)
}
