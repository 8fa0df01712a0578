package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spillhus/gamesvc/internal/infra/logging"
)

// SQLiteStoreConfig holds configuration for the shared SQLite store.
type SQLiteStoreConfig struct {
	// DatabasePath is the filesystem path to the SQLite database file
	DatabasePath string `env:"DATABASE_PATH" envDefault:"var/storage/spill.db"`
}

// SQLiteStore owns the process-wide database handle. It is opened once at
// startup, injected into the repositories, and closed on shutdown. All writes
// go through a single mutex because the sqlite driver does not support
// concurrent writers.
type SQLiteStore struct {
	db        *sql.DB
	log       logging.Logger
	writeLock *sync.Mutex
}

// OpenSQLiteStore opens the database at the configured path, applies pragmas
// and creates the schema if needed.
func OpenSQLiteStore(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	log := logging.GetLogger("repo.store.sqlite_store").With(
		logging.Group("db", "path", cfg.DatabasePath),
	)

	// Pragmas go into the DSN so every pooled connection gets them: sqlite
	// ships with foreign keys off, and leaderboard.user_id relies on them.
	dsn := "file:" + cfg.DatabasePath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initializeSchema(db); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	log.Debug("store opened")

	return &SQLiteStore{
		db:        db,
		log:       log,
		writeLock: new(sync.Mutex),
	}, nil
}

func initializeSchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT    UNIQUE NOT NULL,
			password_hash BLOB    NOT NULL,
			created_at    INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create users schema: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS leaderboard (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			game_id TEXT    NOT NULL,
			score   INTEGER NOT NULL,
			UNIQUE (user_id, game_id)
		)
	`); err != nil {
		return fmt.Errorf("create leaderboard schema: %w", err)
	}

	return nil
}

// DB exposes the underlying handle to the repositories.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// WriteLock returns the store-wide write mutex. Repositories must hold it for
// the duration of any statement that modifies data.
func (s *SQLiteStore) WriteLock() *sync.Mutex {
	return s.writeLock
}

// Close releases the database handle. Called once on shutdown.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	s.log.Debug("store closed")

	return nil
}
