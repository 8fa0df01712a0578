package gateway

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/spillhus/gamesvc/internal/infra/logging"
	http_ "github.com/spillhus/gamesvc/internal/infra/transport/http"
	"github.com/spillhus/gamesvc/internal/svc/authsvc"
	"github.com/spillhus/gamesvc/internal/svc/avatarsvc"
	"github.com/spillhus/gamesvc/internal/svc/leaderboardsvc"
)

// HTTPTransportConfig contains configuration parameters for the gateway.
type HTTPTransportConfig struct {
	http_.HTTPTransportConfig

	// StaticDir is the directory the site's static assets are served from
	StaticDir string `env:"STATIC_DIR" envDefault:"public"`
}

// HTTPTransport is the single HTTP surface of the process. It routes requests
// to the auth, leaderboard and avatar services and serves the static frontend
// for everything else.
type HTTPTransport struct {
	router chi.Router
	log    logging.Logger
	cfg    HTTPTransportConfig
}

// NewHTTPTransport composes the service transports into one router:
//   - POST /register, POST /login        auth service
//   - GET  /register, GET  /login        static pages
//   - GET  /api/leaderboard              leaderboard service
//   - POST /api/updateScore              leaderboard service
//   - GET  /api/avatar                   avatar service
//   - GET  /*                            static assets
func NewHTTPTransport(
	auth *authsvc.HTTPTransport,
	leaderboard *leaderboardsvc.HTTPTransport,
	avatar *avatarsvc.HTTPTransport,
	cfg HTTPTransportConfig,
) *HTTPTransport {
	transport := &HTTPTransport{
		log: logging.GetLogger("svc.gateway.http_transport"),
		cfg: cfg,
	}

	router := chi.NewRouter()

	router.Post("/register", auth.HandleRegister)
	router.Post("/login", auth.HandleLogin)

	router.Get("/register", transport.servePage("register.html"))
	router.Get("/login", transport.servePage("login.html"))

	router.Route("/api", func(api chi.Router) {
		api.Get("/leaderboard", leaderboard.HandleGetLeaderboard)
		api.Post("/updateScore", leaderboard.HandleUpdateScore)
		api.Get("/avatar", avatar.HandleGetAvatar)
	})

	router.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))

	transport.router = router

	return transport
}

// ServeHTTP implements http.Handler.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.router.ServeHTTP(w, r)
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

func (ht *HTTPTransport) servePage(name string) http.HandlerFunc {
	page := filepath.Join(ht.cfg.StaticDir, name)

	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, page)
	}
}
