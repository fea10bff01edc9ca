package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/secops-service/internal/auth"
	"github.com/spec-kit/secops-service/internal/config"
	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/events"
	"github.com/spec-kit/secops-service/internal/repository"
	"github.com/spec-kit/secops-service/internal/repository/memory"
	apperrors "github.com/spec-kit/secops-service/pkg/util"
)

type captured struct {
	events []events.Event
}

func (c *captured) dispatcher() events.Dispatcher {
	d := events.NewInMemoryDispatcher(nil)
	d.SubscribeAll(func(_ context.Context, e events.Event) error {
		c.events = append(c.events, e)
		return nil
	})
	return d
}

func newClientService(store *memory.Store, sink *captured) *RecordService[domain.Client, *domain.Client] {
	return NewRecordService[domain.Client](domain.EntityClient, "client", store.Clients(), Dependencies{
		Activities: store.Activities(),
		Dispatcher: sink.dispatcher(),
	})
}

func statusOf(err error) int {
	return apperrors.ToDomainError(err).HTTPStatus
}

func TestRecordServiceCreate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sink := &captured{}
	svc := newClientService(store, sink)

	client, err := svc.Create(ctx, "u-1", []byte(`{"id":"forged","name":"Acme Corp","email":"ops@acme.io"}`))
	require.NoError(t, err)
	assert.NotEqual(t, "forged", client.ID)
	assert.NotEmpty(t, client.ID)
	assert.Equal(t, domain.ClientStatusActive, client.Status)
	assert.False(t, client.CreatedAt.IsZero())

	activities, err := store.Activities().Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, domain.ActivityCreated, activities[0].ActivityType)
	assert.Equal(t, domain.EntityClient, activities[0].EntityType)
	assert.Equal(t, client.ID, activities[0].EntityID)
	assert.Equal(t, "u-1", activities[0].ActorID)

	require.Len(t, sink.events, 1)
	assert.Equal(t, events.EventClientCreated, sink.events[0].Type)
	assert.Equal(t, client.ID, sink.events[0].EntityID)
}

func TestRecordServiceCreateRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newClientService(store, &captured{})

	for name, body := range map[string]string{
		"missing name": `{"email":"x@y.z"}`,
		"not json":     `name=acme`,
		"array":        `[{"name":"acme"}]`,
		"empty":        ``,
		"wrong type":   `{"name": 42}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, "u-1", []byte(body))
			assert.Equal(t, 400, statusOf(err))
		})
	}

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	activities, _ := store.Activities().Recent(ctx, 10)
	assert.Empty(t, activities)
}

func TestRecordServiceUpdateMergesPartially(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sink := &captured{}
	svc := newClientService(store, sink)

	created, err := svc.Create(ctx, "u-1", []byte(`{"name":"Acme","email":"ops@acme.io","phone":"555-0100"}`))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "u-2", created.ID,
		[]byte(`{"phone":"555-0199","id":"other","created_at":"2001-01-01T00:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, "ops@acme.io", updated.Email)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-0199", stored.Phone)
	assert.Equal(t, "ops@acme.io", stored.Email)

	require.Len(t, sink.events, 2)
	assert.Equal(t, events.EventClientUpdated, sink.events[1].Type)
}

func TestRecordServiceUpdateDoesNotWriteThroughOnValidationFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewRecordService[domain.Incident](domain.EntityIncident, "incident", store.Incidents(), Dependencies{})

	occurred := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, "u-1", []byte(`{"title":"Gate","occurred_at":"2024-05-01T10:00:00Z"}`))
	require.NoError(t, err)

	_, err = svc.Update(ctx, "u-1", created.ID, []byte(`{"title":"","occurred_at":"2030-01-01T00:00:00Z"}`))
	assert.Equal(t, 400, statusOf(err))

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OccurredAt)
	assert.True(t, occurred.Equal(*stored.OccurredAt))
	assert.Equal(t, "Gate", stored.Title)
}

func TestRecordServiceMissingRecord(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sink := &captured{}
	svc := newClientService(store, sink)

	_, err := svc.Get(ctx, "nope")
	assert.Equal(t, 404, statusOf(err))

	_, err = svc.Update(ctx, "u-1", "nope", []byte(`{"name":"x"}`))
	assert.Equal(t, 404, statusOf(err))

	err = svc.Delete(ctx, "u-1", "nope")
	assert.Equal(t, 404, statusOf(err))

	activities, err := store.Activities().Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, activities)
	assert.Empty(t, sink.events)
}

func TestRecordServiceDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sink := &captured{}
	svc := newClientService(store, sink)

	created, err := svc.Create(ctx, "u-1", []byte(`{"name":"Acme"}`))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "u-1", created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.Equal(t, 404, statusOf(err))

	require.Len(t, sink.events, 2)
	assert.Equal(t, events.EventClientDeleted, sink.events[1].Type)
	assert.Equal(t, events.DeletedPayload{ID: created.ID}, sink.events[1].Payload)
}

type failingLog struct{}

func (failingLog) Append(context.Context, *domain.Activity) error {
	return errors.New("activity table unavailable")
}

func (failingLog) Recent(context.Context, int) ([]domain.Activity, error) {
	return nil, errors.New("activity table unavailable")
}

func TestRecordServiceActivityFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewRecordService[domain.Property](domain.EntityProperty, "property", store.Properties(), Dependencies{
		Activities: failingLog{},
	})

	created, err := svc.Create(ctx, "u-1", []byte(`{"name":"HQ","address":"1 Main St"}`))
	require.NoError(t, err)
	_, err = svc.Update(ctx, "u-1", created.ID, []byte(`{"status":"inactive"}`))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "u-1", created.ID))
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 6, 15, 14, 0, 0, 0, loc)
	midnight := time.Date(2024, 6, 15, 0, 0, 0, 0, loc)

	clock := now
	store := memory.New(memory.WithClock(func() time.Time { return clock }))
	at := func(ts time.Time) { clock = ts }

	// yesterday: one open incident, one active property
	at(midnight.Add(-2 * time.Hour))
	require.NoError(t, store.Incidents().Create(ctx, &domain.Incident{Title: "a", Status: domain.IncidentStatusOpen}))
	require.NoError(t, store.Properties().Create(ctx, &domain.Property{Name: "p1", Address: "x", Status: domain.PropertyStatusActive}))
	// two days ago: counts in totals only
	at(midnight.Add(-30 * time.Hour))
	require.NoError(t, store.Incidents().Create(ctx, &domain.Incident{Title: "old", Status: domain.IncidentStatusOpen}))
	require.NoError(t, store.Accounts().Create(ctx, &domain.Account{Username: "s1", PasswordHash: "h", Active: true}))
	// today
	at(midnight.Add(time.Hour))
	require.NoError(t, store.Incidents().Create(ctx, &domain.Incident{Title: "b", Status: domain.IncidentStatusOpen}))
	require.NoError(t, store.Incidents().Create(ctx, &domain.Incident{Title: "c", Status: domain.IncidentStatusOpen}))
	require.NoError(t, store.Incidents().Create(ctx, &domain.Incident{Title: "closed", Status: domain.IncidentStatusClosed}))
	require.NoError(t, store.PatrolReports().Create(ctx, &domain.PatrolReport{Status: domain.PatrolStatusInProgress}))
	require.NoError(t, store.PatrolReports().Create(ctx, &domain.PatrolReport{Status: domain.PatrolStatusCompleted}))
	require.NoError(t, store.Accounts().Create(ctx, &domain.Account{Username: "s2", PasswordHash: "h", Active: true}))
	require.NoError(t, store.Accounts().Create(ctx, &domain.Account{Username: "s3", PasswordHash: "h", Active: false}))
	// exactly at midnight belongs to today
	at(midnight)
	require.NoError(t, store.Properties().Create(ctx, &domain.Property{Name: "p2", Address: "y", Status: domain.PropertyStatusActive}))
	require.NoError(t, store.Properties().Create(ctx, &domain.Property{Name: "p3", Address: "z", Status: domain.PropertyStatusInactive}))
	at(now)

	svc := NewDashboardService(store, func() time.Time { return now })
	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.DashboardStats{
		OpenIncidents:    4,
		ActivePatrols:    1,
		ActiveProperties: 2,
		ActiveStaff:      2,
		IncidentChange:   1,
		PatrolChange:     1,
		PropertyChange:   0,
		StaffChange:      1,
	}, *stats)

	again, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, again)
}

func TestDashboardStatsEmpty(t *testing.T) {
	stats, err := NewDashboardService(memory.New(), nil).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{}, *stats)
}

type brokenStore struct {
	*memory.Store
}

type brokenIncidents struct {
	repository.Collection[domain.Incident]
}

func (brokenIncidents) List(context.Context) ([]domain.Incident, error) {
	return nil, errors.New("connection reset")
}

func (b brokenStore) Incidents() repository.Collection[domain.Incident] {
	return brokenIncidents{b.Store.Incidents()}
}

func TestDashboardStatsStoreFailure(t *testing.T) {
	_, err := NewDashboardService(brokenStore{memory.New()}, nil).Stats(context.Background())
	require.Error(t, err)
	assert.Equal(t, 500, statusOf(err))
}

func TestFinancialSummary(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	records := store.FinancialRecords()
	for _, r := range []domain.FinancialRecord{
		{RecordType: domain.RecordTypeIncome, Amount: 1000},
		{RecordType: domain.RecordTypeIncome, Amount: 250.5},
		{RecordType: domain.RecordTypeExpense, Amount: 300},
		{RecordType: domain.RecordTypeInvoice, Amount: 400, Status: domain.PaymentStatusPaid},
		{RecordType: domain.RecordTypeInvoice, Amount: 600, Status: domain.PaymentStatusOverdue},
	} {
		r := r
		require.NoError(t, records.Create(ctx, &r))
	}

	summary, err := NewFinancialService(records).Summary(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1250.5, summary.TotalIncome, 0.001)
	assert.InDelta(t, 300, summary.TotalExpenses, 0.001)
	assert.InDelta(t, 1000, summary.TotalInvoiced, 0.001)
	assert.InDelta(t, 600, summary.Outstanding, 0.001)
	assert.InDelta(t, 950.5, summary.NetIncome, 0.001)
	assert.Equal(t, 5, summary.RecordCount)
}

func TestActivityServiceLimits(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	for i := 0; i < 130; i++ {
		require.NoError(t, store.Activities().Append(ctx, &domain.Activity{ActivityType: domain.ActivityCreated}))
	}
	svc := NewActivityService(store.Activities())

	items, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, items, DefaultActivityLimit)

	items, err = svc.Recent(ctx, 500)
	require.NoError(t, err)
	assert.Len(t, items, MaxActivityLimit)

	items, err = svc.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	hash, err := auth.HashPassword("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Accounts().Create(ctx, &domain.Account{
		Username: "sup", PasswordHash: hash, Role: domain.RoleSupervisor, Active: true,
		FirstName: "Sam", LastName: "Super",
	}))

	tokens, err := auth.NewTokenManager("secret", time.Hour)
	require.NoError(t, err)
	verifier := auth.NewCredentialVerifier(config.OperatorConfig{ID: "operator", Username: "admin", Password: "admin123"}, store.Accounts(), nil)
	svc := NewAuthService(verifier, tokens, Dependencies{Activities: store.Activities()})

	result, err := svc.Login(ctx, "sup", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSupervisor, result.Identity.Role)

	identity, err := tokens.Authenticate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Identity, *identity)

	activities, err := store.Activities().Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, domain.ActivityLogin, activities[0].ActivityType)

	_, err = svc.Login(ctx, "sup", "wrong")
	assert.ErrorIs(t, err, ErrLoginFailed)
}
