package kv

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/spec-kit/secops-service/internal/repository"
)

// LevelDBBackend keeps documents under "d:<kind>:<id>" and an ordering index under
// "i:<kind>:<created-micros big-endian><id>".
type LevelDBBackend struct {
	db *leveldb.DB
	// mu serializes existence checks with the writes that depend on them.
	mu sync.Mutex
}

// NewLevelDBBackend takes ownership of db; Close closes it.
func NewLevelDBBackend(db *leveldb.DB) *LevelDBBackend {
	return &LevelDBBackend{db: db}
}

func docKey(kind, id string) []byte {
	return []byte("d:" + kind + ":" + id)
}

func indexPrefix(kind string) []byte {
	return []byte("i:" + kind + ":")
}

func indexKey(kind, id string, createdAt time.Time) []byte {
	prefix := indexPrefix(kind)
	key := make([]byte, 0, len(prefix)+8+len(id))
	key = append(key, prefix...)
	key = binary.BigEndian.AppendUint64(key, uint64(createdAt.UnixMicro()))
	return append(key, id...)
}

func (b *LevelDBBackend) Insert(_ context.Context, kind, id string, createdAt time.Time, doc []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	has, err := b.db.Has(docKey(kind, id), nil)
	if err != nil {
		return fmt.Errorf("failed to check key: %w", err)
	}
	if has {
		return fmt.Errorf("%w: %s %s already exists", repository.ErrConstraint, kind, id)
	}

	batch := new(leveldb.Batch)
	batch.Put(docKey(kind, id), doc)
	batch.Put(indexKey(kind, id, createdAt), nil)
	if err := b.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("failed to put: %w", err)
	}
	return nil
}

func (b *LevelDBBackend) Replace(_ context.Context, kind, id string, doc []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	has, err := b.db.Has(docKey(kind, id), nil)
	if err != nil {
		return fmt.Errorf("failed to check key: %w", err)
	}
	if !has {
		return repository.ErrNotFound
	}
	if err := b.db.Put(docKey(kind, id), doc, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("failed to put: %w", err)
	}
	return nil
}

func (b *LevelDBBackend) Get(_ context.Context, kind, id string) ([]byte, error) {
	doc, err := b.db.Get(docKey(kind, id), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from db: %w", err)
	}
	return doc, nil
}

func (b *LevelDBBackend) Delete(_ context.Context, kind, id string, createdAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	has, err := b.db.Has(docKey(kind, id), nil)
	if err != nil {
		return fmt.Errorf("failed to check key: %w", err)
	}
	if !has {
		return repository.ErrNotFound
	}

	batch := new(leveldb.Batch)
	batch.Delete(docKey(kind, id))
	batch.Delete(indexKey(kind, id, createdAt))
	if err := b.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

func (b *LevelDBBackend) List(_ context.Context, kind string, limit int) ([][]byte, error) {
	prefix := indexPrefix(kind)
	iter := b.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	var docs [][]byte
	for ok := iter.Last(); ok; ok = iter.Prev() {
		key := iter.Key()
		if len(key) < len(prefix)+8 {
			continue
		}
		id := string(key[len(prefix)+8:])
		doc, err := b.db.Get(docKey(kind, id), nil)
		if errors.Is(err, leveldb.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get from db: %w", err)
		}
		docs = append(docs, doc)
		if limit > 0 && len(docs) >= limit {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate: %w", err)
	}
	return docs, nil
}

func (b *LevelDBBackend) Ping(_ context.Context) error {
	_, err := b.db.GetProperty("leveldb.stats")
	return err
}

func (b *LevelDBBackend) Close() error {
	return b.db.Close()
}
