package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/config"
	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/repository/kv"
	"github.com/spec-kit/secops-service/internal/repository/memory"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverMemory}}
		store, err := OpenStore(ctx, cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, store)
	})

	t.Run("leveldb persists across reopen", func(t *testing.T) {
		cfg := &config.Config{
			Store:   config.StoreConfig{Driver: config.StoreDriverLevelDB},
			LevelDB: config.LevelDBConfig{Path: filepath.Join(t.TempDir(), "db", "secops.ldb")},
		}
		store, err := OpenStore(ctx, cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &kv.Store{}, store)

		client := &domain.Client{Name: "Riverside Mall"}
		require.NoError(t, store.Clients().Create(ctx, client))
		require.NoError(t, store.Close())

		reopened, err := OpenStore(ctx, cfg, logger)
		require.NoError(t, err)
		t.Cleanup(func() { _ = reopened.Close() })
		got, err := reopened.Clients().Get(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "Riverside Mall", got.Name)
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverPostgres}}
		_, err := OpenStore(ctx, cfg, logger)
		assert.ErrorContains(t, err, "POSTGRES_DSN")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Driver: "cassandra"}}
		_, err := OpenStore(ctx, cfg, logger)
		assert.Error(t, err)
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	content, err := migrationFiles.ReadFile("migrations/0001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"clients", "properties", "incidents", "patrol_reports", "appointments", "financial_records", "accounts", "activities"} {
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}
