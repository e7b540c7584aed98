package main

import (
	"context"

	"github.com/sportmatch/backend/internal/app"
	"github.com/sportmatch/backend/internal/auth"
	"github.com/sportmatch/backend/internal/cache"
	"github.com/sportmatch/backend/internal/config"
	"github.com/sportmatch/backend/internal/db"
	"github.com/sportmatch/backend/internal/logger"
	"github.com/sportmatch/backend/internal/server"
	"github.com/sportmatch/backend/internal/service/account"
	"github.com/sportmatch/backend/internal/service/discover"
	"github.com/sportmatch/backend/internal/service/media"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	tokens := auth.NewManager(cfg)

	// Inject dependencies into app context
	appCtx := app.New(cfg, database, redisCache, tokens, log)

	registrars := []server.Registrar{
		account.NewRegistrar(appCtx),
		discover.NewRegistrar(appCtx),
		media.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.Start(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
