package score_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spillhus/gamesvc/internal/domain"
	"github.com/spillhus/gamesvc/internal/repo/score"
	"github.com/spillhus/gamesvc/internal/repo/store"
	"github.com/spillhus/gamesvc/internal/repo/user"
)

func setupTestRepos(t *testing.T) (*score.SQLiteScoreRepository, *user.SQLiteUserRepository) {
	t.Helper()

	st, err := store.OpenSQLiteStore(store.SQLiteStoreConfig{
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	return score.NewSQLiteScoreRepository(st), user.NewSQLiteUserRepository(st)
}

func createTestUser(t *testing.T, users *user.SQLiteUserRepository, username string) int64 {
	t.Helper()

	id, err := users.CreateUser(context.Background(), username, []byte("hash"))
	if err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}

	return id
}

func TestSQLiteScoreRepository_ApplyDelta(t *testing.T) {
	t.Parallel()

	scores, users := setupTestRepos(t)
	ctx := context.Background()
	userID := createTestUser(t, users, "alice")

	// First delta creates the record, later deltas accumulate.
	steps := []struct {
		delta int64
		want  int64
	}{
		{delta: 5, want: 5},
		{delta: 3, want: 8},
		{delta: -2, want: 6},
	}

	for _, step := range steps {
		if err := scores.ApplyDelta(ctx, userID, "blackjack", step.delta); err != nil {
			t.Fatalf("ApplyDelta(%d) error = %v", step.delta, err)
		}

		entries, err := scores.ListByGame(ctx, "blackjack")
		if err != nil {
			t.Fatalf("ListByGame() error = %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("ListByGame() len = %d, want 1", len(entries))
		}
		if entries[0].Score != step.want {
			t.Errorf("score after delta %d = %d, want %d", step.delta, entries[0].Score, step.want)
		}
	}
}

func TestSQLiteScoreRepository_ApplyDelta_UnknownUser(t *testing.T) {
	t.Parallel()

	scores, _ := setupTestRepos(t)

	err := scores.ApplyDelta(context.Background(), 42, "blackjack", 5)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("ApplyDelta() error = %v, want ErrUserNotFound", err)
	}
}

func TestSQLiteScoreRepository_ApplyDelta_Concurrent(t *testing.T) {
	t.Parallel()

	scores, users := setupTestRepos(t)
	ctx := context.Background()
	userID := createTestUser(t, users, "alice")

	const workers = 25

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := scores.ApplyDelta(ctx, userID, "blackjack", 1); err != nil {
				t.Errorf("ApplyDelta() error = %v", err)
			}
		}()
	}

	wg.Wait()

	entries, err := scores.ListByGame(ctx, "blackjack")
	if err != nil {
		t.Fatalf("ListByGame() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ListByGame() len = %d, want 1", len(entries))
	}
	// No lost updates: every increment must land.
	if entries[0].Score != workers {
		t.Errorf("score = %d, want %d", entries[0].Score, workers)
	}
}

func TestSQLiteScoreRepository_ListByGame(t *testing.T) {
	t.Parallel()

	scores, users := setupTestRepos(t)
	ctx := context.Background()

	inserts := []struct {
		username string
		delta    int64
	}{
		{username: "carol", delta: 5},
		{username: "dave", delta: 8},
		{username: "erin", delta: 2},
	}

	for _, ins := range inserts {
		userID := createTestUser(t, users, ins.username)

		if err := scores.ApplyDelta(ctx, userID, "blackjack", ins.delta); err != nil {
			t.Fatalf("ApplyDelta() error = %v", err)
		}

		// A score in another game must not leak into the blackjack ranking.
		if err := scores.ApplyDelta(ctx, userID, "poker", 100); err != nil {
			t.Fatalf("ApplyDelta() error = %v", err)
		}
	}

	entries, err := scores.ListByGame(ctx, "blackjack")
	if err != nil {
		t.Fatalf("ListByGame() error = %v", err)
	}

	wantOrder := []struct {
		username string
		score    int64
	}{
		{username: "dave", score: 8},
		{username: "carol", score: 5},
		{username: "erin", score: 2},
	}

	if len(entries) != len(wantOrder) {
		t.Fatalf("ListByGame() len = %d, want %d", len(entries), len(wantOrder))
	}

	for i, want := range wantOrder {
		if entries[i].Username != want.username || entries[i].Score != want.score {
			t.Errorf("entry %d = %s/%d, want %s/%d",
				i, entries[i].Username, entries[i].Score, want.username, want.score)
		}
	}
}

func TestSQLiteScoreRepository_ListByGame_Empty(t *testing.T) {
	t.Parallel()

	scores, _ := setupTestRepos(t)

	entries, err := scores.ListByGame(context.Background(), "unknown-game")
	if err != nil {
		t.Fatalf("ListByGame() error = %v", err)
	}
	if entries == nil {
		t.Error("ListByGame() = nil, want empty slice")
	}
	if len(entries) != 0 {
		t.Errorf("ListByGame() len = %d, want 0", len(entries))
	}
}
