package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	app "github.com/mohammadpnp/roster-import/internal/application/roster"
	"github.com/mohammadpnp/roster-import/internal/config"
	"github.com/mohammadpnp/roster-import/internal/infrastructure/lock"
	"github.com/mohammadpnp/roster-import/internal/infrastructure/repository"
)

// OpenPostgres connects gorm and a pgx pool to the same database and applies
// migrations when cfg.AutoMigrate is set. The caller closes the pool.
func OpenPostgres(ctx context.Context, cfg config.Config) (*gorm.DB, *pgxpool.Pool, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := repository.Migrate(db); err != nil {
			return nil, nil, err
		}
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return db, pool, nil
}

// NewRunLocker returns a redis-backed locker when REDIS_ADDRESS is set and nil
// otherwise, leaving the in-process default in place. close releases the
// redis client.
func NewRunLocker(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (locker app.RunLocker, close func() error, err error) {
	if cfg.Redis.Address == "" {
		return nil, func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Address, err)
	}

	return lock.NewRedisRunLocker(client, lock.DefaultKey, cfg.Import.LockTTL, logger), client.Close, nil
}
