package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/secops-service/internal/repository"
)

type docCollection[T any, P repository.EntityPtr[T]] struct {
	kind    string
	backend Backend
	now     func() time.Time
}

func newDocCollection[T any, P repository.EntityPtr[T]](kind string, backend Backend, now func() time.Time) *docCollection[T, P] {
	return &docCollection[T, P]{kind: kind, backend: backend, now: now}
}

func (c *docCollection[T, P]) List(ctx context.Context) ([]T, error) {
	docs, err := c.backend.List(ctx, c.kind, 0)
	if err != nil {
		return nil, err
	}
	result := make([]T, 0, len(docs))
	for _, doc := range docs {
		var rec T
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.kind, err)
		}
		result = append(result, rec)
	}
	return result, nil
}

func (c *docCollection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := c.backend.Get(ctx, c.kind, id)
	if err != nil {
		return nil, err
	}
	var rec T
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", c.kind, id, err)
	}
	return &rec, nil
}

func (c *docCollection[T, P]) Create(ctx context.Context, record *T) error {
	meta := P(record).Metadata()
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	now := c.now().UTC()
	meta.CreatedAt = now
	meta.UpdatedAt = now
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.kind, err)
	}
	return c.backend.Insert(ctx, c.kind, meta.ID, meta.CreatedAt, doc)
}

func (c *docCollection[T, P]) Update(ctx context.Context, record *T) error {
	meta := P(record).Metadata()
	existing, err := c.Get(ctx, meta.ID)
	if err != nil {
		return err
	}
	meta.CreatedAt = P(existing).Metadata().CreatedAt
	meta.UpdatedAt = c.now().UTC()
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.kind, err)
	}
	return c.backend.Replace(ctx, c.kind, meta.ID, doc)
}

func (c *docCollection[T, P]) Delete(ctx context.Context, id string) error {
	existing, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.backend.Delete(ctx, c.kind, id, P(existing).Metadata().CreatedAt)
}
