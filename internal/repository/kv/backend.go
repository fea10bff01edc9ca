// Package kv implements the Domain Store as JSON documents on a key-value backend.
// Redis serves as the hosted backend and LevelDB as the embedded one; both keep a
// per-kind index ordered by creation time so listings come back newest first.
package kv

import (
	"context"
	"time"
)

// Backend stores opaque documents grouped by kind.
// Implementations return repository.ErrNotFound and repository.ErrConstraint.
type Backend interface {
	// Insert stores a new document and fails with ErrConstraint if the id exists.
	Insert(ctx context.Context, kind, id string, createdAt time.Time, doc []byte) error
	// Replace overwrites an existing document and fails with ErrNotFound otherwise.
	Replace(ctx context.Context, kind, id string, doc []byte) error
	Get(ctx context.Context, kind, id string) ([]byte, error)
	Delete(ctx context.Context, kind, id string, createdAt time.Time) error
	// List returns up to limit documents newest first; limit <= 0 means all.
	List(ctx context.Context, kind string, limit int) ([][]byte, error)
	Ping(ctx context.Context) error
	Close() error
}
