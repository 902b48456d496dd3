package domain

import "time"

// Employee represents a task worker registered in the marketplace.
type Employee struct {
	ID          string
	PrincipalID string
	Name        string
	Token       string
	CreatedAt   time.Time
}

// PrincipalKind distinguishes the two actor roles behind a principal.
type PrincipalKind string

const (
	PrincipalKindBusiness PrincipalKind = "business"
	PrincipalKindEmployee PrincipalKind = "employee"
)

// Principal is the authenticated identity invoking an operation. ID is the
// external auth subject; the identity-token verification itself happens
// outside this service.
type Principal struct {
	ID   string
	Kind PrincipalKind
	Name string
}
