package domain

import "time"

// TaskStatus represents the status of a task in the lifecycle state machine.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusAssigned   TaskStatus = "ASSIGNED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusSubmitted  TaskStatus = "SUBMITTED"
	TaskStatusReviewed   TaskStatus = "REVIEWED"
	TaskStatusApproved   TaskStatus = "APPROVED"
	TaskStatusRejected   TaskStatus = "REJECTED"
)

// allowedTransitions is the authoritative map of legal status changes.
// Every operation that moves a task between statuses consults this table;
// there is no second validation path.
var allowedTransitions = map[TaskStatus]map[TaskStatus]struct{}{
	TaskStatusPending: {
		TaskStatusAssigned: {},
	},
	TaskStatusAssigned: {
		TaskStatusInProgress: {},
		TaskStatusPending:    {},
		TaskStatusSubmitted:  {},
	},
	TaskStatusInProgress: {
		TaskStatusSubmitted: {},
		TaskStatusAssigned:  {},
	},
	TaskStatusSubmitted: {
		TaskStatusReviewed: {},
	},
	TaskStatusReviewed: {
		TaskStatusApproved:   {},
		TaskStatusRejected:   {},
		TaskStatusInProgress: {},
	},
	TaskStatusApproved: {},
	TaskStatusRejected: {
		TaskStatusAssigned: {},
		TaskStatusPending:  {},
	},
}

// CanTransitionTo reports whether moving from s to next is legal.
// Pure and total: unknown statuses on either side yield false.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	targets, ok := allowedTransitions[s]
	if !ok {
		return false
	}
	_, ok = targets[next]
	return ok
}

// IsTerminal returns true if the status is terminal (no transitions allowed).
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusApproved
}

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// ReviewAction is the decision a business takes on a submitted task.
type ReviewAction string

const (
	ReviewActionApprove        ReviewAction = "approve"
	ReviewActionReject         ReviewAction = "reject"
	ReviewActionRequestChanges ReviewAction = "request_changes"
)

// IsValid checks if the action is one of the allowed values.
func (a ReviewAction) IsValid() bool {
	switch a {
	case ReviewActionApprove, ReviewActionReject, ReviewActionRequestChanges:
		return true
	default:
		return false
	}
}

// Status returns the task status a review action lands on.
func (a ReviewAction) Status() TaskStatus {
	switch a {
	case ReviewActionApprove:
		return TaskStatusApproved
	case ReviewActionReject:
		return TaskStatusRejected
	default:
		return TaskStatusInProgress
	}
}

// Task represents a unit of work posted by a business and worked by at most
// one employee at a time.
type Task struct {
	ID          string
	BusinessID  string
	Name        string
	Description string
	Price       float64
	DueDate     *time.Time
	Status      TaskStatus
	AssignedTo  *string
	Solution    string

	ReviewComments *string
	ReviewedBy     *string
	ReviewedAt     *time.Time

	AssignedAt         *time.Time
	UnassignedAt       *time.Time
	StartedAt          *time.Time
	SubmittedAt        *time.Time
	ApprovedAt         *time.Time
	RejectedAt         *time.Time
	ChangesRequestedAt *time.Time
	StatusUpdatedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAssigned reports whether the task is currently in the hands of an
// employee. Derived from the status so the two can never disagree.
func (t *Task) IsAssigned() bool {
	return t.Status != TaskStatusPending
}

// IsOwnedBy checks if the task belongs to the given business.
func (t *Task) IsOwnedBy(businessID string) bool {
	return t.BusinessID == businessID
}

// IsWorkedBy checks if the task is assigned to the given employee.
func (t *Task) IsWorkedBy(employeeID string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == employeeID
}

// IsOverdue reports whether the due date has passed for a still-open task.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Status.IsTerminal()
}

// TaskUpdate holds the optional descriptive fields of a partial update.
// Nil pointers mean "leave unchanged".
type TaskUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	DueDate     *time.Time
}

// IsEmpty reports whether the update would change nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.DueDate == nil
}
