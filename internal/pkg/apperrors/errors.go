package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors. The four resolver failure causes stay
	// distinguishable here even though they all surface as 401.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("authorization token missing")
	ErrTokenMalformed     = errors.New("malformed token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrSubjectNotFound    = errors.New("token subject no longer exists")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Upstream errors
	ErrUpstreamFailure = errors.New("upstream collaborator unavailable")
)

// Domain errors wrap the generic sentinels above so the HTTP layer can
// map them by category while callers still match the precise cause.
var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrResourceNotFound)
	ErrEmailAlreadyExists = fmt.Errorf("email already exists: %w", ErrConflict)
	ErrInvalidResetToken  = errors.New("invalid or expired password reset token")

	ErrBootcampNotFound       = fmt.Errorf("bootcamp %w", ErrResourceNotFound)
	ErrBootcampAlreadyOwned   = fmt.Errorf("user has already published a bootcamp: %w", ErrConflict)
	ErrAlreadyParticipant     = fmt.Errorf("user already registered for this bootcamp: %w", ErrConflict)
	ErrNotBootcampParticipant = fmt.Errorf("user is not a participant of this bootcamp: %w", ErrPermissionDenied)

	ErrCourseNotFound = fmt.Errorf("course %w", ErrResourceNotFound)

	ErrReviewNotFound  = fmt.Errorf("review %w", ErrResourceNotFound)
	ErrDuplicateReview = fmt.Errorf("user has already reviewed this bootcamp: %w", ErrConflict)
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a new custom error for validation failures with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
