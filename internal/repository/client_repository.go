package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/secops-service/internal/domain"
)

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository returns a Postgres-backed client collection.
func NewClientRepository(pool *pgxpool.Pool) Collection[domain.Client] {
	return &clientRepository{pool: pool}
}

const clientColumns = `id, name, contact_name, email, phone, address, status, notes, created_at, updated_at`

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (name, contact_name, email, phone, address, status, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		client.Name,
		client.ContactName,
		client.Email,
		client.Phone,
		client.Address,
		client.Status,
		client.Notes,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	return translatePgError(err)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET name=$1, contact_name=$2, email=$3, phone=$4, address=$5, status=$6, notes=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		client.Name,
		client.ContactName,
		client.Email,
		client.Phone,
		client.Address,
		client.Status,
		client.Notes,
		client.ID,
	).Scan(&client.UpdatedAt)
	return translatePgError(err)
}

func (r *clientRepository) Get(ctx context.Context, id string) (*domain.Client, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id=$1`, id)
	client, err := scanClient(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC`)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *client)
	}
	return result, rows.Err()
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.pool, `DELETE FROM clients WHERE id=$1`, id)
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var client domain.Client
	if err := row.Scan(
		&client.ID,
		&client.Name,
		&client.ContactName,
		&client.Email,
		&client.Phone,
		&client.Address,
		&client.Status,
		&client.Notes,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}
