package service

import (
	"time"

	"github.com/gigboard/gigboard/internal/domain"
)

// TransitionStamps returns the timestamp columns written by a status change.
// Every transition stamps status_updated_at; specific moves add their own
// milestone column.
func TransitionStamps(oldStatus, newStatus domain.TaskStatus, now time.Time) map[string]time.Time {
	stamps := map[string]time.Time{
		"status_updated_at": now,
	}

	switch {
	case newStatus == domain.TaskStatusAssigned && (oldStatus == domain.TaskStatusPending || oldStatus == domain.TaskStatusRejected):
		stamps["assigned_at"] = now
	case newStatus == domain.TaskStatusPending:
		stamps["unassigned_at"] = now
	case oldStatus == domain.TaskStatusAssigned && newStatus == domain.TaskStatusInProgress:
		stamps["started_at"] = now
	case newStatus == domain.TaskStatusSubmitted:
		stamps["submitted_at"] = now
	}

	return stamps
}

// ReviewStamps returns the timestamp columns written by a review decision.
func ReviewStamps(action domain.ReviewAction, now time.Time) map[string]time.Time {
	stamps := map[string]time.Time{
		"status_updated_at": now,
		"reviewed_at":       now,
	}

	switch action {
	case domain.ReviewActionApprove:
		stamps["approved_at"] = now
	case domain.ReviewActionReject:
		stamps["rejected_at"] = now
	case domain.ReviewActionRequestChanges:
		stamps["changes_requested_at"] = now
	}

	return stamps
}

// ShouldClearAssignee returns true if the transition requires clearing the
// assignee. Transitions to PENDING always return the task to the pool.
func ShouldClearAssignee(newStatus domain.TaskStatus) bool {
	return newStatus == domain.TaskStatusPending
}
