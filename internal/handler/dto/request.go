package dto

import "time"

// CreateTaskRequest represents the request body for POST /tasks.
// BusinessID may be omitted when the caller authenticates as a business.
type CreateTaskRequest struct {
	BusinessID  string     `json:"business_id,omitempty" validate:"omitempty,uuid"`
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Price       float64    `json:"price" validate:"required,gt=0"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateTaskRequest represents the request body for PATCH /tasks/:id.
// All fields are optional; at least one must be present.
type UpdateTaskRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateStatusRequest represents the request body for PATCH /tasks/:id/status.
type UpdateStatusRequest struct {
	Status   string `json:"status" validate:"required"`
	Comments string `json:"comments,omitempty"`
}

// AssignTaskRequest represents the request body for POST /tasks/:id/assign.
type AssignTaskRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
}

// SubmitSolutionRequest represents the request body for POST /tasks/:id/submit.
type SubmitSolutionRequest struct {
	Solution string `json:"solution" validate:"required"`
}

// ReviewTaskRequest represents the request body for POST /tasks/:id/review.
type ReviewTaskRequest struct {
	Action   string `json:"action" validate:"required,oneof=approve reject request_changes"`
	Comments string `json:"comments,omitempty"`
}

// ListTasksFilters represents query parameters for GET /tasks.
type ListTasksFilters struct {
	Status    []string // Multiple statuses: ?status=PENDING,SUBMITTED
	Business  *string  // ?business=<uuid>
	Assignee  *string  // ?assignee=<uuid>
	Available bool     // ?available=true
	Overdue   bool     // ?overdue=true
	MinPrice  *float64 // ?min_price=10
	MaxPrice  *float64 // ?max_price=100
	Sort      []string // ?sort=-price,created_at
	Limit     int      // ?limit=50
	Offset    int      // ?offset=0
}
