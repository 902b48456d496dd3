package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigboard/gigboard/internal/domain"
	"github.com/gigboard/gigboard/internal/repository"
)

// TaskService coordinates task lifecycle operations and keeps the business
// task-id lists consistent with task creation and deletion.
//
// Every mutating operation runs inside a single transaction: the task row is
// locked with FOR UPDATE, the transition is validated against the loaded
// status, and the write itself is guarded by that status, so two concurrent
// callers cannot both pass validation on a stale read.
type TaskService struct {
	pool         *pgxpool.Pool
	taskRepo     *repository.TaskRepository
	eventRepo    *repository.TaskEventRepository
	businessRepo *repository.BusinessRepository
	employeeRepo *repository.EmployeeRepository
	authorizer   *Authorizer
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	eventRepo *repository.TaskEventRepository,
	businessRepo *repository.BusinessRepository,
	employeeRepo *repository.EmployeeRepository,
	authorizer *Authorizer,
) *TaskService {
	return &TaskService{
		pool:         pool,
		taskRepo:     taskRepo,
		eventRepo:    eventRepo,
		businessRepo: businessRepo,
		employeeRepo: employeeRepo,
		authorizer:   authorizer,
	}
}

// begin starts a transaction and returns it with a rollback func for defer.
func (s *TaskService) begin(ctx context.Context) (pgx.Tx, func(), error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	rollback := func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}
	return tx, rollback, nil
}

// createEventAndCommit persists a task event within the transaction, then commits.
func (s *TaskService) createEventAndCommit(ctx context.Context, tx pgx.Tx, event *domain.TaskEvent) error {
	if err := s.eventRepo.Create(ctx, tx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// actorRef converts a principal id into an event actor reference.
func actorRef(principalID string) *string {
	if principalID == "" {
		return nil
	}
	return &principalID
}

// CreateTaskParams holds the input for CreateTask.
type CreateTaskParams struct {
	BusinessID  string
	Name        string
	Description string
	Price       float64
	DueDate     *time.Time
	PrincipalID string
}

// CreateTask creates a PENDING task and appends its id to the owning
// business's task list. Both writes share one transaction, so the list can
// never reference a task that was not created, and vice versa.
func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	if err := ValidateCreate(params.Name, params.Description, params.Price); err != nil {
		return nil, err
	}
	if params.BusinessID == "" {
		return nil, fmt.Errorf("%w: business id is required", domain.ErrValidation)
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	task := &domain.Task{
		BusinessID:  params.BusinessID,
		Name:        strings.TrimSpace(params.Name),
		Description: strings.TrimSpace(params.Description),
		Price:       params.Price,
		DueDate:     params.DueDate,
		Status:      domain.TaskStatusPending,
	}

	if _, err := s.businessRepo.GetByID(ctx, params.BusinessID); err != nil {
		return nil, err
	}

	if _, err := s.taskRepo.Create(ctx, tx, task); err != nil {
		return nil, err
	}

	if err := s.businessRepo.AppendTaskID(ctx, tx, params.BusinessID, task.ID); err != nil {
		return nil, err
	}

	newStatus := domain.TaskStatusPending
	event := &domain.TaskEvent{
		TaskID:    task.ID,
		ActorID:   actorRef(params.PrincipalID),
		Type:      domain.EventTypeCreated,
		NewStatus: &newStatus,
		Comment:   "Task created",
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	slog.Info("task created",
		"task_id", task.ID,
		"business_id", task.BusinessID,
		"price", task.Price,
	)

	return task, nil
}

// AssignTask hands a PENDING or REJECTED task to an employee.
func (s *TaskService) AssignTask(ctx context.Context, taskID, employeeID, principalID string) (*domain.Task, error) {
	if employeeID == "" {
		return nil, fmt.Errorf("%w: employee id is required", domain.ErrValidation)
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	// IN_PROGRESS -> ASSIGNED exists in the table as the pause edge; it is
	// not an assignment, so only unclaimed tasks qualify here.
	oldStatus := task.Status
	if (oldStatus != domain.TaskStatusPending && oldStatus != domain.TaskStatusRejected) ||
		!oldStatus.CanTransitionTo(domain.TaskStatusAssigned) {
		return nil, fmt.Errorf("%w: task %s cannot be assigned from %s", domain.ErrInvalidState, taskID, oldStatus)
	}

	now := time.Now()
	err = s.taskRepo.UpdateStatus(ctx, tx, taskID, oldStatus, repository.StatusUpdate{
		NewStatus:  domain.TaskStatusAssigned,
		AssignedTo: &employee.ID,
		Stamps:     TransitionStamps(oldStatus, domain.TaskStatusAssigned, now),
	})
	if err != nil {
		return nil, err
	}

	newStatus := domain.TaskStatusAssigned
	event := &domain.TaskEvent{
		TaskID:    taskID,
		ActorID:   actorRef(principalID),
		Type:      domain.EventTypeAssigned,
		OldStatus: &oldStatus,
		NewStatus: &newStatus,
		Comment:   fmt.Sprintf("Assigned to employee %s", employee.ID),
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	task.Status = newStatus
	task.AssignedTo = &employee.ID
	task.AssignedAt = &now
	task.StatusUpdatedAt = &now
	task.UpdatedAt = now

	slog.Info("task assigned",
		"task_id", taskID,
		"employee_id", employee.ID,
		"old_status", oldStatus,
	)

	return task, nil
}

// UnassignTask returns an ASSIGNED or IN_PROGRESS task to the pool.
//
// From IN_PROGRESS the move is validated as the two-hop
// IN_PROGRESS -> ASSIGNED -> PENDING against the transition table, executed
// as a single write.
func (s *TaskService) UnassignTask(ctx context.Context, taskID, principalID string) (*domain.Task, error) {
	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	direct := oldStatus.CanTransitionTo(domain.TaskStatusPending)
	stepped := oldStatus.CanTransitionTo(domain.TaskStatusAssigned) &&
		domain.TaskStatusAssigned.CanTransitionTo(domain.TaskStatusPending)
	if oldStatus != domain.TaskStatusAssigned && oldStatus != domain.TaskStatusInProgress || !(direct || stepped) {
		return nil, fmt.Errorf("%w: task %s cannot be unassigned from %s", domain.ErrInvalidState, taskID, oldStatus)
	}

	now := time.Now()
	err = s.taskRepo.UpdateStatus(ctx, tx, taskID, oldStatus, repository.StatusUpdate{
		NewStatus:  domain.TaskStatusPending,
		AssignedTo: nil,
		Stamps:     TransitionStamps(oldStatus, domain.TaskStatusPending, now),
	})
	if err != nil {
		return nil, err
	}

	newStatus := domain.TaskStatusPending
	event := &domain.TaskEvent{
		TaskID:    taskID,
		ActorID:   actorRef(principalID),
		Type:      domain.EventTypeUnassigned,
		OldStatus: &oldStatus,
		NewStatus: &newStatus,
		Comment:   "Returned to the pool",
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	task.Status = newStatus
	task.AssignedTo = nil
	task.UnassignedAt = &now
	task.StatusUpdatedAt = &now
	task.UpdatedAt = now

	slog.Info("task unassigned",
		"task_id", taskID,
		"old_status", oldStatus,
	)

	return task, nil
}

// UpdateTaskStatus applies a generic status transition through the table.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, taskID string, newStatus domain.TaskStatus, comment, principalID string) (*domain.Task, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, newStatus)
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	if !oldStatus.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, oldStatus, newStatus)
	}

	// The only table edge that introduces an assignee is PENDING -> ASSIGNED,
	// and it needs an employee. That move goes through AssignTask.
	newAssignee := task.AssignedTo
	if ShouldClearAssignee(newStatus) {
		newAssignee = nil
	} else if newStatus == domain.TaskStatusAssigned && newAssignee == nil {
		return nil, fmt.Errorf("%w: task %s has no employee, use the assign operation", domain.ErrInvalidState, taskID)
	}

	now := time.Now()
	err = s.taskRepo.UpdateStatus(ctx, tx, taskID, oldStatus, repository.StatusUpdate{
		NewStatus:  newStatus,
		AssignedTo: newAssignee,
		Stamps:     TransitionStamps(oldStatus, newStatus, now),
	})
	if err != nil {
		return nil, err
	}

	event := &domain.TaskEvent{
		TaskID:    taskID,
		ActorID:   actorRef(principalID),
		Type:      domain.EventTypeStatusChanged,
		OldStatus: &oldStatus,
		NewStatus: &newStatus,
		Comment:   comment,
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	task.Status = newStatus
	task.AssignedTo = newAssignee
	task.StatusUpdatedAt = &now
	task.UpdatedAt = now
	if oldStatus == domain.TaskStatusAssigned && newStatus == domain.TaskStatusInProgress {
		task.StartedAt = &now
	}

	slog.Info("task status changed",
		"task_id", taskID,
		"old_status", oldStatus,
		"new_status", newStatus,
	)

	return task, nil
}

// SubmitSolution records an employee's solution and moves the task to
// SUBMITTED. The empty-solution check runs before any state inspection.
func (s *TaskService) SubmitSolution(ctx context.Context, taskID, solution, principalID string) (*domain.Task, error) {
	solution = strings.TrimSpace(solution)
	if solution == "" {
		return nil, domain.ErrEmptySolution
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	if !oldStatus.CanTransitionTo(domain.TaskStatusSubmitted) {
		return nil, fmt.Errorf("%w: task %s cannot be submitted from %s", domain.ErrInvalidState, taskID, oldStatus)
	}

	now := time.Now()
	err = s.taskRepo.UpdateStatus(ctx, tx, taskID, oldStatus, repository.StatusUpdate{
		NewStatus:  domain.TaskStatusSubmitted,
		AssignedTo: task.AssignedTo,
		Solution:   &solution,
		Stamps:     TransitionStamps(oldStatus, domain.TaskStatusSubmitted, now),
	})
	if err != nil {
		return nil, err
	}

	newStatus := domain.TaskStatusSubmitted
	event := &domain.TaskEvent{
		TaskID:    taskID,
		ActorID:   actorRef(principalID),
		Type:      domain.EventTypeSubmitted,
		OldStatus: &oldStatus,
		NewStatus: &newStatus,
		Comment:   "Solution submitted",
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	task.Status = newStatus
	task.Solution = solution
	task.SubmittedAt = &now
	task.StatusUpdatedAt = &now
	task.UpdatedAt = now

	slog.Info("solution submitted",
		"task_id", taskID,
		"old_status", oldStatus,
	)

	return task, nil
}

// ReviewTask applies a business's decision on a SUBMITTED task. The move is
// validated as SUBMITTED -> REVIEWED -> final against the transition table
// and executed as one write.
func (s *TaskService) ReviewTask(ctx context.Context, taskID, principalID string, action domain.ReviewAction, comments string) (*domain.Task, error) {
	if !action.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAction, action)
	}
	if principalID == "" {
		return nil, domain.ErrUnauthenticated
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.AuthorizeReview(ctx, principalID, task); err != nil {
		return nil, err
	}

	oldStatus := task.Status
	finalStatus := action.Status()
	if !oldStatus.CanTransitionTo(domain.TaskStatusReviewed) ||
		!domain.TaskStatusReviewed.CanTransitionTo(finalStatus) {
		return nil, fmt.Errorf("%w: task %s cannot be reviewed from %s", domain.ErrInvalidState, taskID, oldStatus)
	}

	now := time.Now()
	err = s.taskRepo.UpdateStatus(ctx, tx, taskID, oldStatus, repository.StatusUpdate{
		NewStatus:      finalStatus,
		AssignedTo:     task.AssignedTo,
		ReviewComments: &comments,
		ReviewedBy:     &principalID,
		Stamps:         ReviewStamps(action, now),
	})
	if err != nil {
		return nil, err
	}

	event := &domain.TaskEvent{
		TaskID:    taskID,
		ActorID:   actorRef(principalID),
		Type:      domain.EventTypeReviewed,
		OldStatus: &oldStatus,
		NewStatus: &finalStatus,
		Comment:   fmt.Sprintf("Review: %s", action),
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	task.Status = finalStatus
	task.ReviewComments = &comments
	task.ReviewedBy = &principalID
	task.ReviewedAt = &now
	task.StatusUpdatedAt = &now
	task.UpdatedAt = now
	switch action {
	case domain.ReviewActionApprove:
		task.ApprovedAt = &now
	case domain.ReviewActionReject:
		task.RejectedAt = &now
	case domain.ReviewActionRequestChanges:
		task.ChangesRequestedAt = &now
	}

	slog.Info("task reviewed",
		"task_id", taskID,
		"action", action,
		"new_status", finalStatus,
	)

	return task, nil
}

// UpdateTask applies a partial update of the descriptive fields. Status and
// assignment are untouched.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, principalID string, update domain.TaskUpdate) (*domain.Task, error) {
	if err := ValidateUpdate(update); err != nil {
		return nil, err
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.AuthorizeBusinessAction(ctx, principalID, task); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateFields(ctx, tx, taskID, update); err != nil {
		return nil, err
	}

	event := &domain.TaskEvent{
		TaskID:  taskID,
		ActorID: actorRef(principalID),
		Type:    domain.EventTypeUpdated,
		Comment: "Task details updated",
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	if update.Name != nil {
		task.Name = *update.Name
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Price != nil {
		task.Price = *update.Price
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	task.UpdatedAt = time.Now()

	slog.Info("task updated", "task_id", taskID)

	return task, nil
}

// DeleteTask removes a task and drops its id from the owning business's task
// list in the same transaction. A crash can no longer leave the list
// referencing a deleted task.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, principalID string) error {
	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return err
	}

	if err := s.authorizer.AuthorizeBusinessAction(ctx, principalID, task); err != nil {
		return err
	}

	if err := s.businessRepo.RemoveTaskID(ctx, tx, task.BusinessID, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, tx, taskID); err != nil {
		return err
	}

	oldStatus := task.Status
	event := &domain.TaskEvent{
		TaskID:    taskID,
		ActorID:   actorRef(principalID),
		Type:      domain.EventTypeDeleted,
		OldStatus: &oldStatus,
		Comment:   "Task deleted",
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return err
	}

	slog.Info("task deleted",
		"task_id", taskID,
		"business_id", task.BusinessID,
	)

	return nil
}

// ReconcileTaskLists rebuilds every business's denormalized task-id list
// from the authoritative task rows. Intended for data imported or mutated
// outside this service; under normal operation the lists never drift.
func (s *TaskService) ReconcileTaskLists(ctx context.Context) (int, error) {
	repaired, err := s.businessRepo.ReconcileTaskIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile task lists: %w", err)
	}

	if repaired == 0 {
		slog.Info("task lists already consistent")
	} else {
		slog.Warn("repaired inconsistent task lists", "businesses", repaired)
	}

	return repaired, nil
}
