package cli

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"mbti-quiz-service/internal/app"
	"mbti-quiz-service/internal/config"
	"mbti-quiz-service/internal/content"
	"mbti-quiz-service/internal/infra/memory"
	pgloader "mbti-quiz-service/internal/infra/postgres"
	redisstore "mbti-quiz-service/internal/infra/redis"
	"mbti-quiz-service/internal/infra/sqlite"
	"mbti-quiz-service/internal/logging"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// loadConfig falls back to the built-in defaults when the file does not exist.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func setup(path string) (config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return cfg, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

// buildService picks a backend per collaborator from cfg. The returned cleanup
// releases every opened connection.
func buildService(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app.Service, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}

	var loader memory.CatalogLoader = memory.NewDefaultCatalogLoader()
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		loader = pgloader.NewCatalogLoader(pool, cfg.Catalog.Name)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogs app.CatalogRepository
	if redisClient != nil {
		catalogs = redisstore.NewCatalogRepository(redisClient, loader, cfg.Catalog.Name, config.TTLDuration(cfg.Redis.TTL, catalogTTL))
	} else {
		catalogs = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var history app.HistoryRepository
	switch {
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = store.Close() })
		history = store
	case redisClient != nil:
		history = redisstore.NewHistoryStore(redisClient, cfg.Redis.HistoryKey)
	default:
		logger.Warn("no history backend configured, results are kept in memory only")
		history = memory.NewHistoryStore()
	}

	service := app.NewService(catalogs, history, content.Default(),
		app.WithTiers(cfg.Tiers),
		app.WithLogger(logger),
	)
	return service, cleanup, nil
}
