package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/secops-service/internal/domain"
)

type patrolReportRepository struct {
	pool *pgxpool.Pool
}

// NewPatrolReportRepository returns a Postgres-backed patrol report collection.
func NewPatrolReportRepository(pool *pgxpool.Pool) Collection[domain.PatrolReport] {
	return &patrolReportRepository{pool: pool}
}

const patrolReportColumns = `id, property_id, officer_id, status, started_at, ended_at, observations,
               checkpoints_completed, created_at, updated_at`

func (r *patrolReportRepository) Create(ctx context.Context, report *domain.PatrolReport) error {
	const query = `
        INSERT INTO patrol_reports (property_id, officer_id, status, started_at, ended_at, observations, checkpoints_completed)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		report.PropertyID,
		report.OfficerID,
		report.Status,
		report.StartedAt,
		report.EndedAt,
		report.Observations,
		report.CheckpointsCompleted,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	return translatePgError(err)
}

func (r *patrolReportRepository) Update(ctx context.Context, report *domain.PatrolReport) error {
	const query = `
        UPDATE patrol_reports SET property_id=$1, officer_id=$2, status=$3, started_at=$4, ended_at=$5,
            observations=$6, checkpoints_completed=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		report.PropertyID,
		report.OfficerID,
		report.Status,
		report.StartedAt,
		report.EndedAt,
		report.Observations,
		report.CheckpointsCompleted,
		report.ID,
	).Scan(&report.UpdatedAt)
	return translatePgError(err)
}

func (r *patrolReportRepository) Get(ctx context.Context, id string) (*domain.PatrolReport, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+patrolReportColumns+` FROM patrol_reports WHERE id=$1`, id)
	report, err := scanPatrolReport(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return report, nil
}

func (r *patrolReportRepository) List(ctx context.Context) ([]domain.PatrolReport, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+patrolReportColumns+` FROM patrol_reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	var result []domain.PatrolReport
	for rows.Next() {
		report, err := scanPatrolReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	return result, rows.Err()
}

func (r *patrolReportRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.pool, `DELETE FROM patrol_reports WHERE id=$1`, id)
}

func scanPatrolReport(row pgx.Row) (*domain.PatrolReport, error) {
	var report domain.PatrolReport
	if err := row.Scan(
		&report.ID,
		&report.PropertyID,
		&report.OfficerID,
		&report.Status,
		&report.StartedAt,
		&report.EndedAt,
		&report.Observations,
		&report.CheckpointsCompleted,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}
