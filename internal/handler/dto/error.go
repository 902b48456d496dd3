package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gigboard/gigboard/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Referential misses
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", message
	case errors.Is(err, domain.ErrBusinessNotFound):
		return http.StatusNotFound, "BUSINESS_NOT_FOUND", message
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return http.StatusNotFound, "EMPLOYEE_NOT_FOUND", message

	// Business-rule violations
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusBadRequest, "INVALID_STATE", message
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest, "INVALID_TRANSITION", message
	case errors.Is(err, domain.ErrTaskConflict):
		return http.StatusConflict, "TASK_CONFLICT", message

	// Authorization failures
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", message
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "INSUFFICIENT_ACCESS", message

	// Validation errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptySolution),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidAction):
		return http.StatusBadRequest, "VALIDATION_ERROR", message

	// Default: internal server error, details stay in the logs
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
