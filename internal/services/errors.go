package services

import (
	"errors"
	"fmt"

	apperrors "github.com/siwes-platform/logbook-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")

	// Account specific errors
	ErrUserNotFound       = errors.New("user not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrProfileNotFound    = errors.New("student profile not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotASupervisor     = errors.New("assigned supervisor must have the supervisor role")
	ErrRegistrationFailed = errors.New("registration could not be completed")

	// Log entry specific errors
	ErrLogNotFound       = errors.New("log entry not found")
	ErrLogAccessDenied   = errors.New("access denied to log entry")
	ErrReviewNotAllowed  = errors.New("only supervisors can review log entries")
	ErrNotAssignedToYou  = errors.New("log entry belongs to a student outside your supervision")
	ErrOnlyStudentsWrite = errors.New("only students can create or edit log entries")

	// Report specific errors
	ErrReportNotAllowed = errors.New("only supervisors can generate reports")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// PermissionError carries the who/what/why of a denied action.
type PermissionError struct {
	UserID     uint   `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrLogNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrLogAccessDenied) ||
		errors.Is(err, ErrReviewNotAllowed) ||
		errors.Is(err, ErrNotAssignedToYou) ||
		errors.Is(err, ErrOnlyStudentsWrite) ||
		errors.Is(err, ErrReportNotAllowed) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrNotASupervisor) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrRegistrationFailed)
}
