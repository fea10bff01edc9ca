// Package memory implements the Domain Store with in-process maps.
// Contents are lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/repository"
)

// Option customizes the store.
type Option func(*Store)

// WithClock overrides the time source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the in-memory backend.
type Store struct {
	now           func() time.Time
	clients       *collection[domain.Client, *domain.Client]
	properties    *collection[domain.Property, *domain.Property]
	incidents     *collection[domain.Incident, *domain.Incident]
	patrolReports *collection[domain.PatrolReport, *domain.PatrolReport]
	appointments  *collection[domain.Appointment, *domain.Appointment]
	financial     *collection[domain.FinancialRecord, *domain.FinancialRecord]
	accounts      *collection[domain.Account, *domain.Account]
	activities    *activityLog
}

var _ repository.Store = (*Store)(nil)

// New builds an empty store.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	clock := func() time.Time { return s.now() }
	s.clients = newCollection[domain.Client, *domain.Client](clock)
	s.properties = newCollection[domain.Property, *domain.Property](clock)
	s.incidents = newCollection[domain.Incident, *domain.Incident](clock)
	s.patrolReports = newCollection[domain.PatrolReport, *domain.PatrolReport](clock)
	s.appointments = newCollection[domain.Appointment, *domain.Appointment](clock)
	s.financial = newCollection[domain.FinancialRecord, *domain.FinancialRecord](clock)
	s.accounts = newCollection[domain.Account, *domain.Account](clock)
	s.activities = &activityLog{now: clock}
	return s
}

func (s *Store) Clients() repository.Collection[domain.Client] { return s.clients }
func (s *Store) Properties() repository.Collection[domain.Property] { return s.properties }
func (s *Store) Incidents() repository.Collection[domain.Incident] { return s.incidents }
func (s *Store) PatrolReports() repository.Collection[domain.PatrolReport] { return s.patrolReports }
func (s *Store) Appointments() repository.Collection[domain.Appointment] { return s.appointments }
func (s *Store) FinancialRecords() repository.Collection[domain.FinancialRecord] { return s.financial }
func (s *Store) Accounts() repository.Collection[domain.Account] { return s.accounts }
func (s *Store) Activities() repository.ActivityLog { return s.activities }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

type activityLog struct {
	mu      sync.RWMutex
	entries []domain.Activity
	now     func() time.Time
}

func (l *activityLog) Append(_ context.Context, activity *domain.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	activity.CreatedAt = l.now().UTC()
	l.mu.Lock()
	l.entries = append(l.entries, *activity)
	l.mu.Unlock()
	return nil
}

func (l *activityLog) Recent(_ context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]domain.Activity, 0, min(limit, len(l.entries)))
	for i := len(l.entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, l.entries[i])
	}
	return result, nil
}
