package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/secops-service/internal/domain"
)

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrConstraint is returned when the backend rejects a write with a constraint violation.
	ErrConstraint = errors.New("constraint violation")
)

// EntityPtr constrains generic code to pointers of stored record types.
type EntityPtr[T any] interface {
	*T
	domain.Entity
}

// Collection is the CRUD capability set every backend provides for a record kind.
// Create assigns id and timestamps; Update replaces the stored record and refreshes updated_at.
type Collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	Delete(ctx context.Context, id string) error
}

// ActivityLog stores audit-trail entries.
type ActivityLog interface {
	Append(ctx context.Context, activity *domain.Activity) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Activity, error)
}

// Store is the Domain Store: one interface implemented by every backend.
type Store interface {
	Clients() Collection[domain.Client]
	Properties() Collection[domain.Property]
	Incidents() Collection[domain.Incident]
	PatrolReports() Collection[domain.PatrolReport]
	Appointments() Collection[domain.Appointment]
	FinancialRecords() Collection[domain.FinancialRecord]
	Accounts() Collection[domain.Account]
	Activities() ActivityLog
	Ping(ctx context.Context) error
	Close() error
}
