// Package storage opens the repositories of the configured storage driver.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/platform/boltdb"
	"bookstore/internal/platform/postgres"
	"bookstore/internal/session"
	"bookstore/internal/user"
)

// Storage bundles the repositories of the configured driver.
type Storage struct {
	Books       book.Repository
	Users       user.Repository
	Revocations session.Store

	pingers []func(context.Context) error
	closers []func()
}

// Open connects to the configured backend. Redis, when configured, takes
// over the revoked tokens.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	s := &Storage{}

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.Storage.DSN, 2*time.Second)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.pingers = append(s.pingers, pool.Ping)
		s.Books = book.NewPostgresRepo(pool, cfg.Storage.QueryTimeout)
		s.Users = user.NewPostgresRepo(pool, cfg.Storage.QueryTimeout)
		s.Revocations = session.NewPostgresRepo(pool, cfg.Storage.QueryTimeout)
		logger.Info("database connection OK", zap.String("dsn", postgres.RedactDSN(cfg.Storage.DSN)))

	case config.DriverBolt:
		db, err := boltdb.Open(cfg.Storage.BoltPath, cfg.Storage.QueryTimeout)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = db.Close() })
		s.pingers = append(s.pingers, func(context.Context) error {
			return db.View(func(*bolt.Tx) error { return nil })
		})
		s.Books = book.NewBoltRepo(db)
		s.Users = user.NewBoltRepo(db)
		s.Revocations = session.NewBoltRepo(db)
		logger.Info("bolt database opened", zap.String("path", cfg.Storage.BoltPath))

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Redis.Addr != "" {
		client, err := session.NewRedisClient(ctx, &redis.Options{
			Addr:        cfg.Redis.Addr,
			Username:    cfg.Redis.Username,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = client.Close() })
		s.pingers = append(s.pingers, func(ctx context.Context) error { return client.Ping(ctx).Err() })
		s.Revocations = session.NewRedisRepo(client)
		logger.Info("revoked tokens kept in redis", zap.String("addr", cfg.Redis.Addr))
	}

	return s, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	var errs []error
	for _, ping := range s.pingers {
		errs = append(errs, ping(ctx))
	}
	return errors.Join(errs...)
}

// Close releases resources in reverse order of acquisition.
func (s *Storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
