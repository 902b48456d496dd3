package domain_test

import (
	"testing"
	"time"

	"github.com/gigboard/gigboard/internal/domain"
	"github.com/stretchr/testify/assert"
)

// legalTransitions mirrors the full transition table. Every pair not listed
// here must be rejected.
var legalTransitions = map[domain.TaskStatus][]domain.TaskStatus{
	domain.TaskStatusPending:    {domain.TaskStatusAssigned},
	domain.TaskStatusAssigned:   {domain.TaskStatusInProgress, domain.TaskStatusPending, domain.TaskStatusSubmitted},
	domain.TaskStatusInProgress: {domain.TaskStatusSubmitted, domain.TaskStatusAssigned},
	domain.TaskStatusSubmitted:  {domain.TaskStatusReviewed},
	domain.TaskStatusReviewed:   {domain.TaskStatusApproved, domain.TaskStatusRejected, domain.TaskStatusInProgress},
	domain.TaskStatusApproved:   {},
	domain.TaskStatusRejected:   {domain.TaskStatusAssigned, domain.TaskStatusPending},
}

var allStatuses = []domain.TaskStatus{
	domain.TaskStatusPending,
	domain.TaskStatusAssigned,
	domain.TaskStatusInProgress,
	domain.TaskStatusSubmitted,
	domain.TaskStatusReviewed,
	domain.TaskStatusApproved,
	domain.TaskStatusRejected,
}

func TestCanTransitionTo_MatchesTableExactly(t *testing.T) {
	for _, from := range allStatuses {
		allowed := map[domain.TaskStatus]bool{}
		for _, to := range legalTransitions[from] {
			allowed[to] = true
		}
		for _, to := range allStatuses {
			got := from.CanTransitionTo(to)
			assert.Equal(t, allowed[to], got, "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionTo_UnknownStatuses(t *testing.T) {
	assert.False(t, domain.TaskStatus("BOGUS").CanTransitionTo(domain.TaskStatusAssigned))
	assert.False(t, domain.TaskStatusPending.CanTransitionTo(domain.TaskStatus("BOGUS")))
	assert.False(t, domain.TaskStatus("").CanTransitionTo(domain.TaskStatus("")))
}

func TestCanTransitionTo_NoSelfTransitions(t *testing.T) {
	for _, s := range allStatuses {
		assert.False(t, s.CanTransitionTo(s), "%s -> %s", s, s)
	}
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	assert.True(t, domain.TaskStatusApproved.IsTerminal())
	for _, s := range allStatuses {
		if s == domain.TaskStatusApproved {
			continue
		}
		assert.False(t, s.IsTerminal(), "%s", s)
	}
}

func TestTaskStatus_IsValid(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, s.IsValid(), "%s", s)
	}
	assert.False(t, domain.TaskStatus("DONE").IsValid())
	assert.False(t, domain.TaskStatus("").IsValid())
}

func TestTask_IsAssigned_DerivedFromStatus(t *testing.T) {
	task := &domain.Task{Status: domain.TaskStatusPending}
	assert.False(t, task.IsAssigned())

	for _, s := range allStatuses {
		if s == domain.TaskStatusPending {
			continue
		}
		task.Status = s
		assert.True(t, task.IsAssigned(), "%s", s)
	}
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&domain.Task{Status: domain.TaskStatusPending}).IsOverdue(now))
	assert.True(t, (&domain.Task{Status: domain.TaskStatusInProgress, DueDate: &past}).IsOverdue(now))
	assert.False(t, (&domain.Task{Status: domain.TaskStatusInProgress, DueDate: &future}).IsOverdue(now))
	// Approved tasks are never overdue, however old the due date.
	assert.False(t, (&domain.Task{Status: domain.TaskStatusApproved, DueDate: &past}).IsOverdue(now))
}

func TestReviewAction_Status(t *testing.T) {
	assert.Equal(t, domain.TaskStatusApproved, domain.ReviewActionApprove.Status())
	assert.Equal(t, domain.TaskStatusRejected, domain.ReviewActionReject.Status())
	assert.Equal(t, domain.TaskStatusInProgress, domain.ReviewActionRequestChanges.Status())
}

func TestReviewAction_IsValid(t *testing.T) {
	assert.True(t, domain.ReviewActionApprove.IsValid())
	assert.True(t, domain.ReviewActionReject.IsValid())
	assert.True(t, domain.ReviewActionRequestChanges.IsValid())
	assert.False(t, domain.ReviewAction("accept").IsValid())
}

func TestTaskUpdate_IsEmpty(t *testing.T) {
	assert.True(t, domain.TaskUpdate{}.IsEmpty())

	name := "New name"
	assert.False(t, domain.TaskUpdate{Name: &name}.IsEmpty())
}
