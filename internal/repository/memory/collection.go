package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/secops-service/internal/repository"
)

// collection keeps records of one kind in a map keyed by id.
type collection[T any, P repository.EntityPtr[T]] struct {
	mu      sync.RWMutex
	records map[string]T
	now     func() time.Time
}

func newCollection[T any, P repository.EntityPtr[T]](now func() time.Time) *collection[T, P] {
	return &collection[T, P]{records: make(map[string]T), now: now}
}

func (c *collection[T, P]) List(_ context.Context) ([]T, error) {
	c.mu.RLock()
	result := make([]T, 0, len(c.records))
	for _, rec := range c.records {
		result = append(result, rec)
	}
	c.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		a, b := P(&result[i]).Metadata(), P(&result[j]).Metadata()
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return result, nil
}

func (c *collection[T, P]) Get(_ context.Context, id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (c *collection[T, P]) Create(_ context.Context, record *T) error {
	meta := P(record).Metadata()
	c.mu.Lock()
	defer c.mu.Unlock()
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	} else if _, exists := c.records[meta.ID]; exists {
		return repository.ErrConstraint
	}
	now := c.now().UTC()
	meta.CreatedAt = now
	meta.UpdatedAt = now
	c.records[meta.ID] = *record
	return nil
}

func (c *collection[T, P]) Update(_ context.Context, record *T) error {
	meta := P(record).Metadata()
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.records[meta.ID]
	if !ok {
		return repository.ErrNotFound
	}
	meta.CreatedAt = P(&existing).Metadata().CreatedAt
	meta.UpdatedAt = c.now().UTC()
	c.records[meta.ID] = *record
	return nil
}

func (c *collection[T, P]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(c.records, id)
	return nil
}
