package dto

import (
	"time"

	"github.com/gigboard/gigboard/internal/domain"
)

// TaskResponse represents the full task object.
type TaskResponse struct {
	ID          string     `json:"id"`
	BusinessID  string     `json:"business_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
	IsAssigned  bool       `json:"is_assigned"`
	AssignedTo  *string    `json:"assigned_to"`
	Solution    string     `json:"solution,omitempty"`

	ReviewComments *string    `json:"review_comments,omitempty"`
	ReviewedBy     *string    `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`

	AssignedAt         *time.Time `json:"assigned_at,omitempty"`
	UnassignedAt       *time.Time `json:"unassigned_at,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	RejectedAt         *time.Time `json:"rejected_at,omitempty"`
	ChangesRequestedAt *time.Time `json:"changes_requested_at,omitempty"`

	IsOverdue bool      `json:"is_overdue"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// TaskDetailResponse represents full task details with event history.
type TaskDetailResponse struct {
	Task   TaskResponse    `json:"task"`
	Events []TaskEventInfo `json:"events"`
}

// TaskEventInfo represents a single audit log entry.
type TaskEventInfo struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ActorID   *string   `json:"actor_id"`
	OldStatus *string   `json:"old_status"`
	NewStatus *string   `json:"new_status"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// DeleteTaskResponse confirms a deletion.
type DeleteTaskResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

// StatsResponse represents marketplace statistics.
type StatsResponse struct {
	TotalTasks      int            `json:"total_tasks"`
	TasksByStatus   map[string]int `json:"tasks_by_status"`
	OpenCount       int            `json:"open_count"`
	OverdueCount    int            `json:"overdue_count"`
	ApprovedCount   int            `json:"approved_count"`
	RejectedCount   int            `json:"rejected_count"`
	ApprovalPercent float64        `json:"approval_percent"`
}

// ToTaskResponse converts domain.Task to TaskResponse.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:                 task.ID,
		BusinessID:         task.BusinessID,
		Name:               task.Name,
		Description:        task.Description,
		Price:              task.Price,
		DueDate:            task.DueDate,
		Status:             string(task.Status),
		IsAssigned:         task.IsAssigned(),
		AssignedTo:         task.AssignedTo,
		Solution:           task.Solution,
		ReviewComments:     task.ReviewComments,
		ReviewedBy:         task.ReviewedBy,
		ReviewedAt:         task.ReviewedAt,
		AssignedAt:         task.AssignedAt,
		UnassignedAt:       task.UnassignedAt,
		StartedAt:          task.StartedAt,
		SubmittedAt:        task.SubmittedAt,
		ApprovedAt:         task.ApprovedAt,
		RejectedAt:         task.RejectedAt,
		ChangesRequestedAt: task.ChangesRequestedAt,
		IsOverdue:          task.IsOverdue(time.Now()),
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}
}

// ToTaskEventInfo converts domain.TaskEvent to TaskEventInfo.
func ToTaskEventInfo(event *domain.TaskEvent) TaskEventInfo {
	var oldStatus, newStatus *string
	if event.OldStatus != nil {
		s := string(*event.OldStatus)
		oldStatus = &s
	}
	if event.NewStatus != nil {
		s := string(*event.NewStatus)
		newStatus = &s
	}

	return TaskEventInfo{
		ID:        event.ID,
		Type:      string(event.Type),
		ActorID:   event.ActorID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Comment:   event.Comment,
		CreatedAt: event.CreatedAt,
	}
}
