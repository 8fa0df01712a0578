package gateway_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spillhus/gamesvc/internal/domain"
	"github.com/spillhus/gamesvc/internal/repo/score"
	"github.com/spillhus/gamesvc/internal/repo/store"
	"github.com/spillhus/gamesvc/internal/repo/user"
	"github.com/spillhus/gamesvc/internal/svc/authsvc"
	"github.com/spillhus/gamesvc/internal/svc/avatarsvc"
	"github.com/spillhus/gamesvc/internal/svc/gateway"
	"github.com/spillhus/gamesvc/internal/svc/leaderboardsvc"
)

func setupTestGateway(t *testing.T) *gateway.HTTPTransport {
	t.Helper()

	dir := t.TempDir()

	staticDir := filepath.Join(dir, "public")
	if err := os.Mkdir(staticDir, 0o755); err != nil {
		t.Fatalf("failed to create static dir: %v", err)
	}

	for name, content := range map[string]string{
		"index.html": "<h1>index</h1>",
		"login.html": "<h1>login</h1>",
	} {
		if err := os.WriteFile(filepath.Join(staticDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	st, err := store.OpenSQLiteStore(store.SQLiteStoreConfig{
		DatabasePath: filepath.Join(dir, "test.db"),
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	authSvc := authsvc.NewAuthService(
		user.NewSQLiteUserRepository(st),
		authsvc.AuthConfig{BcryptCost: bcrypt.MinCost},
	)
	leaderboardSvc := leaderboardsvc.NewLeaderboardService(score.NewSQLiteScoreRepository(st))

	avatarSvc, err := avatarsvc.NewAvatarService(avatarsvc.AvatarConfig{
		Interpolator: "nearestneighbor",
		DefaultSize:  128,
		MinSize:      16,
		MaxSize:      512,
	})
	if err != nil {
		t.Fatalf("failed to create avatar service: %v", err)
	}

	//nolint:exhaustruct
	return gateway.NewHTTPTransport(
		authsvc.NewHTTPTransport(authSvc),
		leaderboardsvc.NewHTTPTransport(leaderboardSvc),
		avatarsvc.NewHTTPTransport(avatarSvc),
		gateway.HTTPTransportConfig{StaticDir: staticDir},
	)
}

func doJSON(t *testing.T, ht http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	ht.ServeHTTP(rec, req)

	return rec
}

// Full path through the gateway: register, login, submit score deltas, read
// the ranking back.
func TestHTTPTransport_EndToEnd(t *testing.T) {
	t.Parallel()

	ht := setupTestGateway(t)

	rec := doJSON(t, ht, http.MethodPost, "/register",
		`{"username":"alice","email":"alice@example.com","password":"secret","confirm-password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, ht, http.MethodPost, "/login", `{"username":"alice","password":"secret"}`)

	var login struct {
		Success bool  `json:"success"`
		UserID  int64 `json:"userId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if !login.Success || login.UserID <= 0 {
		t.Fatalf("login response = %+v, want success with user id", login)
	}

	for _, body := range []string{
		`{"userId":1,"gameId":"blackjack","score":5}`,
		`{"userId":1,"gameId":"blackjack","score":3}`,
	} {
		rec = doJSON(t, ht, http.MethodPost, "/api/updateScore", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("updateScore status = %d, want 200", rec.Code)
		}
	}

	rec = doJSON(t, ht, http.MethodGet, "/api/leaderboard?game=blackjack", "")

	var entries []domain.RankingEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("failed to decode leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].Username != "alice" || entries[0].Score != 8 {
		t.Errorf("leaderboard = %+v, want alice with score 8", entries)
	}
}

func TestHTTPTransport_Routing(t *testing.T) {
	t.Parallel()

	ht := setupTestGateway(t)

	tests := []struct {
		name        string
		method      string
		path        string
		wantStatus  int
		wantContain string
	}{
		{
			name:        "login page",
			method:      http.MethodGet,
			path:        "/login",
			wantStatus:  http.StatusOK,
			wantContain: "login",
		},
		{
			name:        "static index",
			method:      http.MethodGet,
			path:        "/",
			wantStatus:  http.StatusOK,
			wantContain: "index",
		},
		{
			name:       "avatar",
			method:     http.MethodGet,
			path:       "/api/avatar?username=alice&size=32",
			wantStatus: http.StatusOK,
		},
		{
			name:       "avatar without username",
			method:     http.MethodGet,
			path:       "/api/avatar",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown asset",
			method:     http.MethodGet,
			path:       "/missing.html",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			ht.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantContain != "" && !strings.Contains(rec.Body.String(), tt.wantContain) {
				t.Errorf("body = %q, want containing %q", rec.Body.String(), tt.wantContain)
			}
		})
	}
}
