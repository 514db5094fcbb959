// Package app wires configuration into the parse service shared by the HTTP
// server and the MCP server.
package app

import (
	"fmt"
	"io"

	"github.com/voicecart/backend/config"
	"github.com/voicecart/backend/internal/domain"
	"github.com/voicecart/backend/internal/infrastructure/cache"
	"github.com/voicecart/backend/internal/parser"
	"github.com/voicecart/backend/internal/usecase"
	"go.uber.org/zap"
)

// App holds the long-lived dependencies built from configuration
type App struct {
	ParseService *usecase.ParseService

	closer io.Closer
}

// New builds the cache selected by cfg.Cache.Type and the parse service on top
// of it. Callers must Close the returned App.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	repo, closer, err := newCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	logger.Info("cache initialized",
		zap.String("type", cfg.Cache.Type),
		zap.Duration("ttl", cfg.Cache.TTL))

	var opts []parser.Option
	if cfg.Parser.DebugLogging {
		opts = append(opts, parser.WithLogger(logger.Named("parser")))
	}

	svc := usecase.NewParseService(repo, parser.New(opts...), usecase.ParseServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	}, logger.Named("parse_service"))

	return &App{ParseService: svc, closer: closer}, nil
}

// Close releases the cache
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func newCache(cfg config.CacheConfig) (domain.CacheRepository, io.Closer, error) {
	switch cfg.Type {
	case "memory":
		c := cache.NewMemoryCache(0)
		return c, c, nil
	case "sqlite":
		c, err := cache.OpenSQLiteCache(cfg.Path, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite cache: %w", err)
		}
		return c, c, nil
	case "none":
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache type: %s", cfg.Type)
	}
}
