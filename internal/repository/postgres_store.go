package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/secops-service/internal/domain"
)

type postgresStore struct {
	pool          *pgxpool.Pool
	clients       Collection[domain.Client]
	properties    Collection[domain.Property]
	incidents     Collection[domain.Incident]
	patrolReports Collection[domain.PatrolReport]
	appointments  Collection[domain.Appointment]
	financial     Collection[domain.FinancialRecord]
	accounts      Collection[domain.Account]
	activities    ActivityLog
}

// NewPostgresStore returns the relational Store backed by a pgx pool.
// The pool is owned by the caller and is not closed by Close.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{
		pool:          pool,
		clients:       NewClientRepository(pool),
		properties:    NewPropertyRepository(pool),
		incidents:     NewIncidentRepository(pool),
		patrolReports: NewPatrolReportRepository(pool),
		appointments:  NewAppointmentRepository(pool),
		financial:     NewFinancialRecordRepository(pool),
		accounts:      NewAccountRepository(pool),
		activities:    NewActivityRepository(pool),
	}
}

func (s *postgresStore) Clients() Collection[domain.Client] { return s.clients }
func (s *postgresStore) Properties() Collection[domain.Property] { return s.properties }
func (s *postgresStore) Incidents() Collection[domain.Incident] { return s.incidents }
func (s *postgresStore) PatrolReports() Collection[domain.PatrolReport] { return s.patrolReports }
func (s *postgresStore) Appointments() Collection[domain.Appointment] { return s.appointments }
func (s *postgresStore) FinancialRecords() Collection[domain.FinancialRecord] { return s.financial }
func (s *postgresStore) Accounts() Collection[domain.Account] { return s.accounts }
func (s *postgresStore) Activities() ActivityLog { return s.activities }

func (s *postgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return s.pool.Ping(ctx)
}

func (s *postgresStore) Close() error {
	return nil
}

// translatePgError maps pgx errors onto repository sentinels.
func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23: integrity constraint violation.
		if len(pgErr.Code) == 5 && pgErr.Code[:2] == "23" {
			return fmt.Errorf("%w: %s", ErrConstraint, pgErr.Message)
		}
	}
	return err
}

func execAffecting(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) error {
	cmd, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
