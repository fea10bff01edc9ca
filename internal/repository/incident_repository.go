package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/secops-service/internal/domain"
)

type incidentRepository struct {
	pool *pgxpool.Pool
}

// NewIncidentRepository returns a Postgres-backed incident collection.
func NewIncidentRepository(pool *pgxpool.Pool) Collection[domain.Incident] {
	return &incidentRepository{pool: pool}
}

const incidentColumns = `id, property_id, reported_by, title, description, incident_type, severity, status,
               location, occurred_at, created_at, updated_at`

func (r *incidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	const query = `
        INSERT INTO incidents (property_id, reported_by, title, description, incident_type, severity, status, location, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		incident.PropertyID,
		incident.ReportedBy,
		incident.Title,
		incident.Description,
		incident.IncidentType,
		incident.Severity,
		incident.Status,
		incident.Location,
		incident.OccurredAt,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	return translatePgError(err)
}

func (r *incidentRepository) Update(ctx context.Context, incident *domain.Incident) error {
	const query = `
        UPDATE incidents SET property_id=$1, reported_by=$2, title=$3, description=$4, incident_type=$5,
            severity=$6, status=$7, location=$8, occurred_at=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		incident.PropertyID,
		incident.ReportedBy,
		incident.Title,
		incident.Description,
		incident.IncidentType,
		incident.Severity,
		incident.Status,
		incident.Location,
		incident.OccurredAt,
		incident.ID,
	).Scan(&incident.UpdatedAt)
	return translatePgError(err)
}

func (r *incidentRepository) Get(ctx context.Context, id string) (*domain.Incident, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+incidentColumns+` FROM incidents WHERE id=$1`, id)
	incident, err := scanIncident(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return incident, nil
}

func (r *incidentRepository) List(ctx context.Context) ([]domain.Incident, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+incidentColumns+` FROM incidents ORDER BY created_at DESC`)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	var result []domain.Incident
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *incident)
	}
	return result, rows.Err()
}

func (r *incidentRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.pool, `DELETE FROM incidents WHERE id=$1`, id)
}

func scanIncident(row pgx.Row) (*domain.Incident, error) {
	var incident domain.Incident
	if err := row.Scan(
		&incident.ID,
		&incident.PropertyID,
		&incident.ReportedBy,
		&incident.Title,
		&incident.Description,
		&incident.IncidentType,
		&incident.Severity,
		&incident.Status,
		&incident.Location,
		&incident.OccurredAt,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &incident, nil
}
