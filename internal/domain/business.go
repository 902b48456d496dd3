package domain

import "time"

// Business represents a task issuer registered in the marketplace.
//
// TaskIDs is a denormalized cache of the tasks this business has created,
// kept in the order of creation. The authoritative owner link is
// Task.BusinessID; the list exists for cheap profile reads and is maintained
// in the same transaction as every task insert and delete.
type Business struct {
	ID          string
	PrincipalID string
	Name        string
	Token       string
	TaskIDs     []string
	CreatedAt   time.Time
}

// OwnsTaskID checks if the given task id is present in the cached list.
func (b *Business) OwnsTaskID(taskID string) bool {
	for _, id := range b.TaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}
