package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/secops-service/internal/domain"
)

type propertyRepository struct {
	pool *pgxpool.Pool
}

// NewPropertyRepository returns a Postgres-backed property collection.
func NewPropertyRepository(pool *pgxpool.Pool) Collection[domain.Property] {
	return &propertyRepository{pool: pool}
}

const propertyColumns = `id, client_id, name, address, property_type, status, access_notes, created_at, updated_at`

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	const query = `
        INSERT INTO properties (client_id, name, address, property_type, status, access_notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		property.ClientID,
		property.Name,
		property.Address,
		property.PropertyType,
		property.Status,
		property.AccessNotes,
	).Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt)
	return translatePgError(err)
}

func (r *propertyRepository) Update(ctx context.Context, property *domain.Property) error {
	const query = `
        UPDATE properties SET client_id=$1, name=$2, address=$3, property_type=$4, status=$5, access_notes=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		property.ClientID,
		property.Name,
		property.Address,
		property.PropertyType,
		property.Status,
		property.AccessNotes,
		property.ID,
	).Scan(&property.UpdatedAt)
	return translatePgError(err)
}

func (r *propertyRepository) Get(ctx context.Context, id string) (*domain.Property, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id=$1`, id)
	property, err := scanProperty(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return property, nil
}

func (r *propertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY created_at DESC`)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	var result []domain.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *property)
	}
	return result, rows.Err()
}

func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.pool, `DELETE FROM properties WHERE id=$1`, id)
}

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var property domain.Property
	if err := row.Scan(
		&property.ID,
		&property.ClientID,
		&property.Name,
		&property.Address,
		&property.PropertyType,
		&property.Status,
		&property.AccessNotes,
		&property.CreatedAt,
		&property.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &property, nil
}
