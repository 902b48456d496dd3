package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Task errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidState      = errors.New("operation not allowed in current task state")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTaskConflict      = errors.New("task was modified concurrently")

	// Authorization errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("task belongs to another business")

	// Referential errors
	ErrBusinessNotFound = errors.New("business not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrPrincipalUnknown = errors.New("unknown principal token")

	// Validation errors
	ErrValidation    = errors.New("validation failed")
	ErrEmptySolution = errors.New("solution is required")
	ErrInvalidStatus = errors.New("invalid task status")
	ErrInvalidAction = errors.New("invalid review action")
)
