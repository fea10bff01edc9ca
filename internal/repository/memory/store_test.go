package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/repository"
)

func TestCollectionLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := New(WithClock(func() time.Time { return now }))

	client := &domain.Client{Name: "Harbor Logistics", Email: "ops@harbor.test", Status: domain.ClientStatusActive}
	require.NoError(t, store.Clients().Create(ctx, client))
	require.NotEmpty(t, client.ID)
	assert.Equal(t, now, client.CreatedAt)
	assert.Equal(t, now, client.UpdatedAt)

	got, err := store.Clients().Get(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, *client, *got)

	now = now.Add(time.Hour)
	got.Phone = "555-0100"
	require.NoError(t, store.Clients().Update(ctx, got))
	assert.Equal(t, client.CreatedAt, got.CreatedAt)
	assert.Equal(t, now, got.UpdatedAt)

	require.NoError(t, store.Clients().Delete(ctx, client.ID))
	_, err = store.Clients().Get(ctx, client.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCollectionMissingRecords(t *testing.T) {
	ctx := context.Background()
	store := New()

	err := store.Incidents().Update(ctx, &domain.Incident{Meta: domain.Meta{ID: "missing"}})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.Incidents().Delete(ctx, "missing"), repository.ErrNotFound)
}

func TestCollectionDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Properties().Create(ctx, &domain.Property{Meta: domain.Meta{ID: "p1"}, Name: "Dock 4"}))
	err := store.Properties().Create(ctx, &domain.Property{Meta: domain.Meta{ID: "p1"}, Name: "Dock 5"})
	assert.ErrorIs(t, err, repository.ErrConstraint)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := New(WithClock(func() time.Time { return now }))

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, store.Incidents().Create(ctx, &domain.Incident{Title: title}))
		now = now.Add(time.Minute)
	}

	list, err := store.Incidents().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "first", list[2].Title)
}

func TestActivityRecent(t *testing.T) {
	ctx := context.Background()
	store := New()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Activities().Append(ctx, &domain.Activity{
			ActorID:      "operator",
			ActivityType: domain.ActivityCreated,
			EntityType:   domain.EntityClient,
			EntityID:     string(rune('a' + i)),
		}))
	}

	recent, err := store.Activities().Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "e", recent[0].EntityID)
	assert.Equal(t, "d", recent[1].EntityID)
}
