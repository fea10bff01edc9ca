package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/config"
)

// OpenLevelDB opens (creating if needed) the embedded database directory.
func OpenLevelDB(cfg config.LevelDBConfig, logger *zap.Logger) (*leveldb.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create leveldb dir: %w", err)
		}
	}
	db, err := leveldb.OpenFile(cfg.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", cfg.Path, err)
	}
	logger.Info("opened leveldb", zap.String("path", cfg.Path))
	return db, nil
}
