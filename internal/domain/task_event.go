package domain

import "time"

// EventType represents the type of task event.
type EventType string

const (
	EventTypeCreated       EventType = "created"
	EventTypeAssigned      EventType = "assigned"
	EventTypeUnassigned    EventType = "unassigned"
	EventTypeStatusChanged EventType = "status_changed"
	EventTypeSubmitted     EventType = "submitted"
	EventTypeReviewed      EventType = "reviewed"
	EventTypeUpdated       EventType = "updated"
	EventTypeDeleted       EventType = "deleted"
)

// TaskEvent represents an audit log entry for a task action.
type TaskEvent struct {
	ID        string
	TaskID    string
	ActorID   *string // nil for anonymous callers
	Type      EventType
	OldStatus *TaskStatus
	NewStatus *TaskStatus
	Comment   string
	CreatedAt time.Time
}

// IsAnonymous returns true if the event was recorded without a principal.
func (e *TaskEvent) IsAnonymous() bool {
	return e.ActorID == nil
}
