package score

import (
	"context"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/spillhus/gamesvc/internal/domain"
	"github.com/spillhus/gamesvc/internal/infra/logging"
	"github.com/spillhus/gamesvc/internal/repo/store"
)

// SQLiteScoreRepository implements Repository on top of the shared SQLite store.
type SQLiteScoreRepository struct {
	store *store.SQLiteStore
	log   logging.Logger
}

var _ Repository = (*SQLiteScoreRepository)(nil)

// NewSQLiteScoreRepository creates a score repository backed by the given store.
func NewSQLiteScoreRepository(st *store.SQLiteStore) *SQLiteScoreRepository {
	return &SQLiteScoreRepository{
		store: st,
		log:   logging.GetLogger("repo.score.sqlite_score_repository"),
	}
}

// ApplyDelta implements Repository.ApplyDelta as a single conditional upsert.
// The increment is computed inside the statement, so concurrent callers for
// the same (user, game) key serialize on the row instead of racing a separate
// read.
func (r *SQLiteScoreRepository) ApplyDelta(
	ctx context.Context, userID int64, gameID string, delta int64,
) error {
	r.store.WriteLock().Lock()
	defer r.store.WriteLock().Unlock()

	_, err := r.store.DB().ExecContext(ctx, `
		INSERT INTO leaderboard (user_id, game_id, score)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, game_id) DO UPDATE SET score = score + excluded.score
	`, userID, gameID, delta)
	if err != nil {
		var liteErr *sqlite.Error
		if errors.As(err, &liteErr) {
			if liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
				err = errors.Join(domain.ErrUserNotFound, err)
			}
		}

		return fmt.Errorf("upsert score: %w", err)
	}

	return nil
}

// ListByGame implements Repository.ListByGame using SQLite.
// Ties are broken by record id ascending, so among equal scores the earliest
// record wins.
func (r *SQLiteScoreRepository) ListByGame(
	ctx context.Context, gameID string,
) ([]domain.RankingEntry, error) {
	rows, err := r.store.DB().QueryContext(ctx, `
		SELECT u.id, u.username, l.score
		FROM leaderboard l
		JOIN users u ON u.id = l.user_id
		WHERE l.game_id = ?
		ORDER BY l.score DESC, l.id ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query ranking: %w", err)
	}
	defer rows.Close()

	entries := []domain.RankingEntry{}

	for rows.Next() {
		var entry domain.RankingEntry

		if err := rows.Scan(&entry.UserID, &entry.Username, &entry.Score); err != nil {
			return nil, fmt.Errorf("scan ranking entry: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranking: %w", err)
	}

	return entries, nil
}
