package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/secops-service/internal/domain"
)

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository returns a Postgres-backed appointment collection.
func NewAppointmentRepository(pool *pgxpool.Pool) Collection[domain.Appointment] {
	return &appointmentRepository{pool: pool}
}

const appointmentColumns = `id, client_id, property_id, staff_id, title, description, location, start_time, end_time,
               status, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (client_id, property_id, staff_id, title, description, location, start_time, end_time, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		appt.ClientID,
		appt.PropertyID,
		appt.StaffID,
		appt.Title,
		appt.Description,
		appt.Location,
		appt.StartTime,
		appt.EndTime,
		appt.Status,
	).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
	return translatePgError(err)
}

func (r *appointmentRepository) Update(ctx context.Context, appt *domain.Appointment) error {
	const query = `
        UPDATE appointments SET client_id=$1, property_id=$2, staff_id=$3, title=$4, description=$5, location=$6,
            start_time=$7, end_time=$8, status=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		appt.ClientID,
		appt.PropertyID,
		appt.StaffID,
		appt.Title,
		appt.Description,
		appt.Location,
		appt.StartTime,
		appt.EndTime,
		appt.Status,
		appt.ID,
	).Scan(&appt.UpdatedAt)
	return translatePgError(err)
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id=$1`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return appt, nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+appointmentColumns+` FROM appointments ORDER BY created_at DESC`)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	var result []domain.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *appt)
	}
	return result, rows.Err()
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.pool, `DELETE FROM appointments WHERE id=$1`, id)
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var appt domain.Appointment
	if err := row.Scan(
		&appt.ID,
		&appt.ClientID,
		&appt.PropertyID,
		&appt.StaffID,
		&appt.Title,
		&appt.Description,
		&appt.Location,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &appt, nil
}
