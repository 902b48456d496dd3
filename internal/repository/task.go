package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigboard/gigboard/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "business_id", "name", "description", "price", "due_date",
	"status", "assigned_to", "solution",
	"review_comments", "reviewed_by", "reviewed_at",
	"assigned_at", "unassigned_at", "started_at", "submitted_at",
	"approved_at", "rejected_at", "changes_requested_at", "status_updated_at",
	"created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.BusinessID,
		&task.Name,
		&task.Description,
		&task.Price,
		&task.DueDate,
		&task.Status,
		&task.AssignedTo,
		&task.Solution,
		&task.ReviewComments,
		&task.ReviewedBy,
		&task.ReviewedAt,
		&task.AssignedAt,
		&task.UnassignedAt,
		&task.StartedAt,
		&task.SubmittedAt,
		&task.ApprovedAt,
		&task.RejectedAt,
		&task.ChangesRequestedAt,
		&task.StatusUpdatedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a task by ID with FOR UPDATE lock (within transaction).
// Serializes concurrent mutations of the same task for the lifetime of the transaction.
func (r *TaskRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for task %s: %w", taskID, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// StatusUpdate describes the write applied by a single status transition.
// AssignedTo is always written (pass the current value to keep it); the
// remaining pointers are written only when non-nil.
type StatusUpdate struct {
	NewStatus      domain.TaskStatus
	AssignedTo     *string
	Solution       *string
	ReviewComments *string
	ReviewedBy     *string
	Stamps         map[string]time.Time
}

// UpdateStatus applies a status transition guarded by the expected current
// status. Returns ErrTaskConflict if the task was modified concurrently
// (oldStatus no longer matches).
func (r *TaskRepository) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	taskID string,
	oldStatus domain.TaskStatus,
	update StatusUpdate,
) error {
	qb := psql.
		Update("tasks").
		Set("status", update.NewStatus).
		Set("assigned_to", update.AssignedTo).
		Set("updated_at", sq.Expr("NOW()"))

	if update.Solution != nil {
		qb = qb.Set("solution", *update.Solution)
	}
	if update.ReviewComments != nil {
		qb = qb.Set("review_comments", *update.ReviewComments)
	}
	if update.ReviewedBy != nil {
		qb = qb.Set("reviewed_by", *update.ReviewedBy)
	}
	for column, at := range update.Stamps {
		qb = qb.Set(column, at)
	}

	query, args, err := qb.
		Where(sq.Eq{
			"id":     taskID,
			"status": oldStatus,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateStatus query for task %s: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskConflict
	}

	return nil
}

// UpdateFields applies a partial update of the descriptive task fields.
// Status and assignment are untouched.
func (r *TaskRepository) UpdateFields(ctx context.Context, tx pgx.Tx, taskID string, update domain.TaskUpdate) error {
	qb := psql.
		Update("tasks").
		Set("updated_at", sq.Expr("NOW()"))

	if update.Name != nil {
		qb = qb.Set("name", *update.Name)
	}
	if update.Description != nil {
		qb = qb.Set("description", *update.Description)
	}
	if update.Price != nil {
		qb = qb.Set("price", *update.Price)
	}
	if update.DueDate != nil {
		qb = qb.Set("due_date", *update.DueDate)
	}

	query, args, err := qb.Where(sq.Eq{"id": taskID}).ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateFields query for task %s: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task fields: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// Create inserts a new PENDING task within a transaction.
// Returns the created task with ID, CreatedAt, and UpdatedAt populated.
func (r *TaskRepository) Create(ctx context.Context, tx pgx.Tx, task *domain.Task) (*domain.Task, error) {
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}

	query, args, err := psql.
		Insert("tasks").
		Columns("business_id", "name", "description", "price", "due_date", "status", "solution").
		Values(
			task.BusinessID,
			task.Name,
			task.Description,
			task.Price,
			task.DueDate,
			task.Status,
			task.Solution,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// Delete removes a task within a transaction.
func (r *TaskRepository) Delete(ctx context.Context, tx pgx.Tx, taskID string) error {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for task %s: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// FindByBusinessID retrieves all tasks owned by a business, oldest first.
func (r *TaskRepository) FindByBusinessID(ctx context.Context, businessID string) ([]*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"business_id": businessID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build FindByBusinessID query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks by business: %w", err)
	}

	return scanTasks(rows)
}
