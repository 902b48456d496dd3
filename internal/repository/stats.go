package repository

import (
	"context"
	"fmt"

	"github.com/gigboard/gigboard/internal/domain"
)

// MarketplaceStatsResult holds overall marketplace statistics.
type MarketplaceStatsResult struct {
	TotalTasks    int
	TasksByStatus map[string]int
	OpenCount     int
	OverdueCount  int
	ApprovedCount int
	RejectedCount int
}

// GetMarketplaceStats retrieves overall marketplace statistics.
func (r *TaskRepository) GetMarketplaceStats(ctx context.Context) (*MarketplaceStatsResult, error) {
	// Tasks by status (current state)
	tasksByStatus := make(map[string]int)
	total := 0

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM tasks
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		tasksByStatus[status] = count
		total += count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status rows: %w", err)
	}

	// Overdue count: open tasks past their due date
	var overdueCount int
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM tasks
		WHERE due_date < NOW()
		  AND status <> $1
	`, domain.TaskStatusApproved).Scan(&overdueCount)
	if err != nil {
		return nil, fmt.Errorf("count overdue tasks: %w", err)
	}

	return &MarketplaceStatsResult{
		TotalTasks:    total,
		TasksByStatus: tasksByStatus,
		OpenCount:     tasksByStatus[string(domain.TaskStatusPending)],
		OverdueCount:  overdueCount,
		ApprovedCount: tasksByStatus[string(domain.TaskStatusApproved)],
		RejectedCount: tasksByStatus[string(domain.TaskStatusRejected)],
	}, nil
}
