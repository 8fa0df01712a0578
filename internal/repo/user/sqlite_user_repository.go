package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/spillhus/gamesvc/internal/domain"
	"github.com/spillhus/gamesvc/internal/infra/logging"
	"github.com/spillhus/gamesvc/internal/repo/store"
)

// SQLiteUserRepository implements Repository on top of the shared SQLite store.
type SQLiteUserRepository struct {
	store *store.SQLiteStore
	log   logging.Logger
}

var _ Repository = (*SQLiteUserRepository)(nil)

// NewSQLiteUserRepository creates a user repository backed by the given store.
// The store owns the connection lifecycle; the repository never closes it.
func NewSQLiteUserRepository(st *store.SQLiteStore) *SQLiteUserRepository {
	return &SQLiteUserRepository{
		store: st,
		log:   logging.GetLogger("repo.user.sqlite_user_repository"),
	}
}

// CreateUser implements Repository.CreateUser using SQLite.
func (r *SQLiteUserRepository) CreateUser(
	ctx context.Context, username string, passwordHash []byte,
) (int64, error) {
	r.store.WriteLock().Lock()
	defer r.store.WriteLock().Unlock()

	res, err := r.store.DB().ExecContext(ctx,
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		username,
		passwordHash,
		time.Now().Unix(),
	)
	if err != nil {
		var liteErr *sqlite.Error
		if errors.As(err, &liteErr) {
			switch liteErr.Code() {
			case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
				fallthrough
			case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
				err = errors.Join(domain.ErrUserAlreadyExists, err)
			default:
			}
		}

		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	return id, nil
}

// GetUserByUsername implements Repository.GetUserByUsername using SQLite.
func (r *SQLiteUserRepository) GetUserByUsername(
	ctx context.Context, username string,
) (*domain.User, bool, error) {
	return r.getUser(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	)
}

// GetUserByID implements Repository.GetUserByID using SQLite.
func (r *SQLiteUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, bool, error) {
	return r.getUser(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?",
		id,
	)
}

func (r *SQLiteUserRepository) getUser(
	ctx context.Context, query string, arg any,
) (*domain.User, bool, error) {
	var user domain.User

	err := r.store.DB().QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = errors.Join(domain.ErrUserNotFound, err)
		}

		return nil, false, fmt.Errorf("query user: %w", err)
	}

	return &user, true, nil
}
