package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/secops-service/internal/domain"
)

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed staff account collection.
func NewAccountRepository(pool *pgxpool.Pool) Collection[domain.Account] {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, username, email, password_hash, first_name, last_name, role, active, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (username, email, password_hash, first_name, last_name, role, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.Role,
		account.Active,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	return translatePgError(err)
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts SET username=$1, email=$2, password_hash=$3, first_name=$4, last_name=$5, role=$6, active=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.Role,
		account.Active,
		account.ID,
	).Scan(&account.UpdatedAt)
	return translatePgError(err)
}

func (r *accountRepository) Get(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id)
	account, err := scanAccount(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return account, nil
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *account)
	}
	return result, rows.Err()
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.pool, `DELETE FROM accounts WHERE id=$1`, id)
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.FirstName,
		&account.LastName,
		&account.Role,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
