package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/repository"
)

const activityKind = "activity"

// Store is a repository.Store over a document Backend.
type Store struct {
	backend       Backend
	clients       *docCollection[domain.Client, *domain.Client]
	properties    *docCollection[domain.Property, *domain.Property]
	incidents     *docCollection[domain.Incident, *domain.Incident]
	patrolReports *docCollection[domain.PatrolReport, *domain.PatrolReport]
	appointments  *docCollection[domain.Appointment, *domain.Appointment]
	financial     *docCollection[domain.FinancialRecord, *domain.FinancialRecord]
	accounts      *docCollection[domain.Account, *domain.Account]
	activities    *activityLog
}

var _ repository.Store = (*Store)(nil)

// NewStore wraps backend. A nil clock defaults to time.Now.
func NewStore(backend Backend, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		backend:       backend,
		clients:       newDocCollection[domain.Client, *domain.Client](string(domain.EntityClient), backend, now),
		properties:    newDocCollection[domain.Property, *domain.Property](string(domain.EntityProperty), backend, now),
		incidents:     newDocCollection[domain.Incident, *domain.Incident](string(domain.EntityIncident), backend, now),
		patrolReports: newDocCollection[domain.PatrolReport, *domain.PatrolReport](string(domain.EntityPatrolReport), backend, now),
		appointments:  newDocCollection[domain.Appointment, *domain.Appointment](string(domain.EntityAppointment), backend, now),
		financial:     newDocCollection[domain.FinancialRecord, *domain.FinancialRecord](string(domain.EntityFinancialRecord), backend, now),
		accounts:      newDocCollection[domain.Account, *domain.Account](string(domain.EntityAccount), backend, now),
		activities:    &activityLog{backend: backend, now: now},
	}
}

func (s *Store) Clients() repository.Collection[domain.Client] { return s.clients }
func (s *Store) Properties() repository.Collection[domain.Property] { return s.properties }
func (s *Store) Incidents() repository.Collection[domain.Incident] { return s.incidents }
func (s *Store) PatrolReports() repository.Collection[domain.PatrolReport] { return s.patrolReports }
func (s *Store) Appointments() repository.Collection[domain.Appointment] { return s.appointments }
func (s *Store) FinancialRecords() repository.Collection[domain.FinancialRecord] { return s.financial }
func (s *Store) Accounts() repository.Collection[domain.Account] { return s.accounts }
func (s *Store) Activities() repository.ActivityLog { return s.activities }

// Ping checks backend connectivity.
func (s *Store) Ping(ctx context.Context) error { return s.backend.Ping(ctx) }

// Close releases the backend.
func (s *Store) Close() error { return s.backend.Close() }

type activityLog struct {
	backend Backend
	now     func() time.Time
}

func (l *activityLog) Append(ctx context.Context, activity *domain.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	activity.CreatedAt = l.now().UTC()
	doc, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	return l.backend.Insert(ctx, activityKind, activity.ID, activity.CreatedAt, doc)
}

func (l *activityLog) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	docs, err := l.backend.List(ctx, activityKind, limit)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Activity, 0, len(docs))
	for _, doc := range docs {
		var activity domain.Activity
		if err := json.Unmarshal(doc, &activity); err != nil {
			return nil, fmt.Errorf("decode activity: %w", err)
		}
		result = append(result, activity)
	}
	return result, nil
}
