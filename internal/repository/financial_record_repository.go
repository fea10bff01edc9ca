package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/secops-service/internal/domain"
)

type financialRecordRepository struct {
	pool *pgxpool.Pool
}

// NewFinancialRecordRepository returns a Postgres-backed ledger collection.
func NewFinancialRecordRepository(pool *pgxpool.Pool) Collection[domain.FinancialRecord] {
	return &financialRecordRepository{pool: pool}
}

const financialColumns = `id, client_id, record_type, category, description, amount::float8, status, record_date,
               due_date, created_at, updated_at`

func (r *financialRecordRepository) Create(ctx context.Context, rec *domain.FinancialRecord) error {
	const query = `
        INSERT INTO financial_records (client_id, record_type, category, description, amount, status, record_date, due_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		rec.ClientID,
		rec.RecordType,
		rec.Category,
		rec.Description,
		rec.Amount,
		rec.Status,
		rec.RecordDate,
		rec.DueDate,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	return translatePgError(err)
}

func (r *financialRecordRepository) Update(ctx context.Context, rec *domain.FinancialRecord) error {
	const query = `
        UPDATE financial_records SET client_id=$1, record_type=$2, category=$3, description=$4, amount=$5,
            status=$6, record_date=$7, due_date=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		rec.ClientID,
		rec.RecordType,
		rec.Category,
		rec.Description,
		rec.Amount,
		rec.Status,
		rec.RecordDate,
		rec.DueDate,
		rec.ID,
	).Scan(&rec.UpdatedAt)
	return translatePgError(err)
}

func (r *financialRecordRepository) Get(ctx context.Context, id string) (*domain.FinancialRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+financialColumns+` FROM financial_records WHERE id=$1`, id)
	rec, err := scanFinancialRecord(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return rec, nil
}

func (r *financialRecordRepository) List(ctx context.Context) ([]domain.FinancialRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+financialColumns+` FROM financial_records ORDER BY created_at DESC`)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	var result []domain.FinancialRecord
	for rows.Next() {
		rec, err := scanFinancialRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

func (r *financialRecordRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.pool, `DELETE FROM financial_records WHERE id=$1`, id)
}

func scanFinancialRecord(row pgx.Row) (*domain.FinancialRecord, error) {
	var rec domain.FinancialRecord
	if err := row.Scan(
		&rec.ID,
		&rec.ClientID,
		&rec.RecordType,
		&rec.Category,
		&rec.Description,
		&rec.Amount,
		&rec.Status,
		&rec.RecordDate,
		&rec.DueDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}
