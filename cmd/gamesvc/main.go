package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spillhus/gamesvc/internal/infra/config"
	"github.com/spillhus/gamesvc/internal/infra/logging"
	"github.com/spillhus/gamesvc/internal/infra/transport/http"
	"github.com/spillhus/gamesvc/internal/repo/score"
	"github.com/spillhus/gamesvc/internal/repo/store"
	"github.com/spillhus/gamesvc/internal/repo/user"
	"github.com/spillhus/gamesvc/internal/svc/authsvc"
	"github.com/spillhus/gamesvc/internal/svc/avatarsvc"
	"github.com/spillhus/gamesvc/internal/svc/gateway"
	"github.com/spillhus/gamesvc/internal/svc/leaderboardsvc"
)

const (
	appName = "spillhus"
	svcName = "gamesvc"
)

type Config struct {
	Log    logging.LoggerConfig        `envPrefix:"LOG_"`
	Auth   authsvc.AuthConfig          `envPrefix:"AUTH_"`
	Avatar avatarsvc.AvatarConfig      `envPrefix:"AVATAR_"`
	HTTP   gateway.HTTPTransportConfig `envPrefix:"HTTP_"`
	Store  store.SQLiteStoreConfig     `envPrefix:"STORE_"`
}

func main() {
	var (
		cfg Config

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.Parse(&cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	log := logging.GetLogger("cmd.gamesvc")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)

			return
		}

		log.InfoContext(ctx, "shutdown")
	}()

	st, err := store.OpenSQLiteStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	// The store handle lives for the process lifetime and is released here,
	// after the server has drained.
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.ErrorContext(ctx, "close store", "err", closeErr)
		}
	}()

	userRepo := user.NewSQLiteUserRepository(st)
	scoreRepo := score.NewSQLiteScoreRepository(st)

	authSvc := authsvc.NewAuthService(userRepo, cfg.Auth)
	leaderboardSvc := leaderboardsvc.NewLeaderboardService(scoreRepo)

	avatarSvc, err := avatarsvc.NewAvatarService(cfg.Avatar)
	if err != nil {
		return fmt.Errorf("new avatar service: %w", err)
	}

	httpTransport := gateway.NewHTTPTransport(
		authsvc.NewHTTPTransport(authSvc),
		leaderboardsvc.NewHTTPTransport(leaderboardSvc),
		avatarsvc.NewHTTPTransport(avatarSvc),
		cfg.HTTP,
	)

	if err := http.ListenAndServe(ctx, httpTransport, cfg.HTTP.HTTPTransportConfig); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
