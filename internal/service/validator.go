package service

import (
	"fmt"
	"strings"

	"github.com/gigboard/gigboard/internal/domain"
)

// ValidateCreate checks the required fields of a task creation request.
// Name and description must be non-empty after trimming; price must be
// strictly positive.
func ValidateCreate(name, description string, price float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if price <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", domain.ErrValidation)
	}
	return nil
}

// ValidateUpdate checks a partial task update: at least one field must be
// present, and present fields must hold usable values.
func ValidateUpdate(update domain.TaskUpdate) error {
	if update.IsEmpty() {
		return fmt.Errorf("%w: at least one field is required", domain.ErrValidation)
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
	}
	if update.Description != nil && strings.TrimSpace(*update.Description) == "" {
		return fmt.Errorf("%w: description cannot be empty", domain.ErrValidation)
	}
	if update.Price != nil && *update.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", domain.ErrValidation)
	}
	return nil
}
