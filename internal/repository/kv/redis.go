package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/secops-service/internal/repository"
)

// RedisBackend keeps each document under "<prefix>:<kind>:<id>" and a sorted set
// "<prefix>:<kind>:index" scored by creation time in microseconds.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend wraps a client. The client is owned by the caller and not closed by Close.
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "secops"
	}
	return &RedisBackend{client: client, prefix: prefix}
}

func (b *RedisBackend) docKey(kind, id string) string {
	return b.prefix + ":" + kind + ":" + id
}

func (b *RedisBackend) indexKey(kind string) string {
	return b.prefix + ":" + kind + ":index"
}

func (b *RedisBackend) Insert(ctx context.Context, kind, id string, createdAt time.Time, doc []byte) error {
	ok, err := b.client.SetNX(ctx, b.docKey(kind, id), doc, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s %s already exists", repository.ErrConstraint, kind, id)
	}
	return b.client.ZAdd(ctx, b.indexKey(kind), redis.Z{
		Score:  float64(createdAt.UnixMicro()),
		Member: id,
	}).Err()
}

func (b *RedisBackend) Replace(ctx context.Context, kind, id string, doc []byte) error {
	ok, err := b.client.SetXX(ctx, b.docKey(kind, id), doc, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (b *RedisBackend) Get(ctx context.Context, kind, id string) ([]byte, error) {
	doc, err := b.client.Get(ctx, b.docKey(kind, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *RedisBackend) Delete(ctx context.Context, kind, id string, _ time.Time) error {
	removed, err := b.client.Del(ctx, b.docKey(kind, id)).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return repository.ErrNotFound
	}
	return b.client.ZRem(ctx, b.indexKey(kind), id).Err()
}

func (b *RedisBackend) List(ctx context.Context, kind string, limit int) ([][]byte, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := b.client.ZRevRange(ctx, b.indexKey(kind), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = b.docKey(kind, id)
	}
	values, err := b.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	docs := make([][]byte, 0, len(values))
	for _, val := range values {
		// A nil entry is a document deleted between ZREVRANGE and MGET.
		switch v := val.(type) {
		case string:
			docs = append(docs, []byte(v))
		case nil:
		default:
			return nil, fmt.Errorf("unexpected redis value type %T", v)
		}
	}
	return docs, nil
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	if b.client == nil {
		return errors.New("redis client not configured")
	}
	return b.client.Ping(ctx).Err()
}

func (b *RedisBackend) Close() error {
	return nil
}
