package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/secops-service/internal/domain"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository builds the audit-trail repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityLog {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Append(ctx context.Context, activity *domain.Activity) error {
	const query = `
        INSERT INTO activities (actor_id, activity_type, entity_type, entity_id, description)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		activity.ActorID,
		activity.ActivityType,
		activity.EntityType,
		activity.EntityID,
		activity.Description,
	).Scan(&activity.ID, &activity.CreatedAt)
	return translatePgError(err)
}

func (r *activityRepository) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
        SELECT id, actor_id, activity_type, entity_type, entity_id, description, created_at
        FROM activities ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	var result []domain.Activity
	for rows.Next() {
		var activity domain.Activity
		if err := rows.Scan(
			&activity.ID,
			&activity.ActorID,
			&activity.ActivityType,
			&activity.EntityType,
			&activity.EntityID,
			&activity.Description,
			&activity.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, activity)
	}
	return result, rows.Err()
}
