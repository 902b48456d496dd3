package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/gigboard/gigboard/internal/domain"
)

// TaskListFilters holds all supported filters for task listing.
type TaskListFilters struct {
	Statuses   []string // Optional: filter by status
	BusinessID *string  // Optional: filter by owning business
	AssignedTo *string  // Optional: filter by assigned employee
	Available  bool     // Optional: show only claimable (PENDING) tasks
	Overdue    bool     // Optional: show only tasks past their due date
	MinPrice   *float64 // Optional: price lower bound
	MaxPrice   *float64 // Optional: price upper bound
	Sort       []string // Optional: sort fields (with - prefix for DESC)
	Limit      int      // Required: page size
	Offset     int      // Required: page offset
}

// sortableColumns whitelists the columns accepted in sort parameters.
var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"due_date":   true,
	"price":      true,
	"status":     true,
	"name":       true,
}

func (f TaskListFilters) apply(qb sq.SelectBuilder) sq.SelectBuilder {
	if len(f.Statuses) > 0 {
		qb = qb.Where(sq.Eq{"status": f.Statuses})
	}
	if f.BusinessID != nil {
		qb = qb.Where(sq.Eq{"business_id": *f.BusinessID})
	}
	if f.Available {
		qb = qb.Where(sq.Eq{"status": domain.TaskStatusPending})
	} else if f.AssignedTo != nil {
		qb = qb.Where(sq.Eq{"assigned_to": *f.AssignedTo})
	}
	if f.Overdue {
		qb = qb.Where("due_date < NOW()").
			Where(sq.NotEq{"status": domain.TaskStatusApproved})
	}
	if f.MinPrice != nil {
		qb = qb.Where(sq.GtOrEq{"price": *f.MinPrice})
	}
	if f.MaxPrice != nil {
		qb = qb.Where(sq.LtOrEq{"price": *f.MaxPrice})
	}
	return qb
}

// List retrieves tasks with filters and pagination, plus the unpaginated total.
func (r *TaskRepository) List(ctx context.Context, filters TaskListFilters) ([]*domain.Task, int, error) {
	qb := filters.apply(psql.Select(taskColumns...).From("tasks"))

	// Apply sorting (default: newest first)
	if len(filters.Sort) == 0 {
		qb = qb.OrderBy("created_at DESC")
	} else {
		for _, sort := range filters.Sort {
			field := sort
			direction := "ASC"
			if strings.HasPrefix(sort, "-") {
				field = sort[1:]
				direction = "DESC"
			}
			if !sortableColumns[field] {
				continue
			}
			qb = qb.OrderBy(field + " " + direction)
		}
	}

	qb = qb.Limit(uint64(filters.Limit)).Offset(uint64(filters.Offset))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	// Get total count (same filters, without pagination)
	countQuery, countArgs, err := filters.apply(psql.Select("COUNT(*)").From("tasks")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, total, nil
}
