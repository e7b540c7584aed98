package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/sportmatch/backend/internal/auth"
	"github.com/sportmatch/backend/internal/cache"
	"github.com/sportmatch/backend/internal/config"
)

// AppContext holds shared dependencies (Config, DB, Redis, Tokens, Logger).
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Tokens     *auth.Manager
	Logger     *slog.Logger
}

// New creates a new AppContext.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, tokens *auth.Manager, logger *slog.Logger) *AppContext {
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Tokens:     tokens,
		Logger:     logger,
	}
}
