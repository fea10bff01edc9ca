package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/config"
	"github.com/spec-kit/secops-service/internal/repository"
	"github.com/spec-kit/secops-service/internal/repository/kv"
	"github.com/spec-kit/secops-service/internal/repository/memory"
)

// OpenStore builds the Domain Store backend selected by cfg.Store.Driver.
// Closing the returned store releases every connection it opened.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Store.Driver {
	case config.StoreDriverMemory, "":
		logger.Info("using in-memory store")
		return memory.New(), nil

	case config.StoreDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &ownedStore{Store: repository.NewPostgresStore(pg.PoolHandle()), close: func() error {
			pg.Close()
			return nil
		}}, nil

	case config.StoreDriverRedis:
		rdb, err := NewRedis(cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("configure redis: %w", err)
		}
		backend := kv.NewRedisBackend(rdb.Client, cfg.Redis.KeyPrefix)
		return &ownedStore{Store: kv.NewStore(backend, nil), close: func() error {
			rdb.Close()
			return nil
		}}, nil

	case config.StoreDriverLevelDB:
		db, err := OpenLevelDB(cfg.LevelDB, logger)
		if err != nil {
			return nil, err
		}
		return kv.NewStore(kv.NewLevelDBBackend(db), nil), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// ownedStore closes the connection it was opened with.
type ownedStore struct {
	repository.Store
	close func() error
}

func (s *ownedStore) Close() error {
	return errors.Join(s.Store.Close(), s.close())
}
