package jobstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"matchday/internal/config"
	"matchday/internal/pkg/errors"
)

// New builds the job store selected by the configuration and verifies its
// backing connection up front.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.JobStore {
	case "memory":
		return NewMemoryStore(), nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "jobstore.redis", "cannot reach redis")
		}
		return NewRedisStore(rdb), nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeConfiguration, "jobstore.postgres", "invalid database url")
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "jobstore.postgres", "cannot reach postgres")
		}
		store, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "jobstore.postgres", "cannot prepare schema")
		}
		return store, nil

	default:
		return nil, errors.Configurationf("unknown job store: %s", cfg.JobStore)
	}
}
