package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigboard/gigboard/internal/domain"
)

var businessColumns = []string{"id", "principal_id", "name", "token", "task_ids", "created_at"}

// BusinessRepository handles database operations for businesses.
type BusinessRepository struct {
	pool *pgxpool.Pool
}

// NewBusinessRepository creates a new BusinessRepository.
func NewBusinessRepository(pool *pgxpool.Pool) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

func scanBusiness(row pgx.Row) (*domain.Business, error) {
	var business domain.Business
	err := row.Scan(
		&business.ID,
		&business.PrincipalID,
		&business.Name,
		&business.Token,
		&business.TaskIDs,
		&business.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("scan business: %w", err)
	}
	return &business, nil
}

// GetByID retrieves a business by ID.
func (r *BusinessRepository) GetByID(ctx context.Context, businessID string) (*domain.Business, error) {
	query, args, err := psql.
		Select(businessColumns...).
		From("businesses").
		Where(sq.Eq{"id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for business: %w", err)
	}

	return scanBusiness(r.pool.QueryRow(ctx, query, args...))
}

// GetByPrincipalID retrieves the business linked to an external principal.
func (r *BusinessRepository) GetByPrincipalID(ctx context.Context, principalID string) (*domain.Business, error) {
	query, args, err := psql.
		Select(businessColumns...).
		From("businesses").
		Where(sq.Eq{"principal_id": principalID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByPrincipalID query for business: %w", err)
	}

	return scanBusiness(r.pool.QueryRow(ctx, query, args...))
}

// GetByToken finds a business by API token.
func (r *BusinessRepository) GetByToken(ctx context.Context, token string) (*domain.Business, error) {
	query, args, err := psql.
		Select(businessColumns...).
		From("businesses").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByToken query for business: %w", err)
	}

	return scanBusiness(r.pool.QueryRow(ctx, query, args...))
}

// AppendTaskID adds a task id to the business's denormalized task list
// within the transaction that creates the task. Returns ErrBusinessNotFound
// if the business row is absent, aborting the whole creation.
func (r *BusinessRepository) AppendTaskID(ctx context.Context, tx pgx.Tx, businessID, taskID string) error {
	query, args, err := psql.
		Update("businesses").
		Set("task_ids", sq.Expr("array_append(task_ids, ?::uuid)", taskID)).
		Where(sq.Eq{"id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build AppendTaskID query for business %s: %w", businessID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("append task id: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrBusinessNotFound
	}

	return nil
}

// RemoveTaskID drops a task id from the business's denormalized task list
// within the transaction that deletes the task. A missing business row is
// tolerated: the authoritative task row is removed either way.
func (r *BusinessRepository) RemoveTaskID(ctx context.Context, tx pgx.Tx, businessID, taskID string) error {
	query, args, err := psql.
		Update("businesses").
		Set("task_ids", sq.Expr("array_remove(task_ids, ?::uuid)", taskID)).
		Where(sq.Eq{"id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build RemoveTaskID query for business %s: %w", businessID, err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("remove task id: %w", err)
	}

	return nil
}

// ReconcileTaskIDs rebuilds every business's task_ids list from the
// authoritative tasks.business_id links. Returns the number of businesses
// whose list was out of sync and got repaired.
func (r *BusinessRepository) ReconcileTaskIDs(ctx context.Context) (int, error) {
	const query = `
		UPDATE businesses b
		SET task_ids = COALESCE(
			(SELECT array_agg(t.id ORDER BY t.created_at)
			 FROM tasks t
			 WHERE t.business_id = b.id),
			'{}'
		)
		WHERE b.task_ids IS DISTINCT FROM COALESCE(
			(SELECT array_agg(t.id ORDER BY t.created_at)
			 FROM tasks t
			 WHERE t.business_id = b.id),
			'{}'
		)`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("reconcile task ids: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
