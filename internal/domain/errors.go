package domain

import "fmt"

// ErrorCode classifies domain errors for transport-level mapping.
type ErrorCode string

const (
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeForbidden     ErrorCode = "FORBIDDEN"
	CodeConflict      ErrorCode = "DATE_RANGE_UNAVAILABLE"
	CodeNotBookable   ErrorCode = "VEHICLE_NOT_BOOKABLE"
	CodeInvalidState  ErrorCode = "INVALID_TRANSITION"
	CodeUnavailable   ErrorCode = "UNAVAILABLE"
)

// Error is the base type for all domain errors.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError reports malformed input, naming the field at fault.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewForbiddenError reports an authorization failure.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NewConflictError reports a date-range conflict with an existing occupying
// booking or calendar block. Raised both by the advisory availability check
// and by the storage-layer exclusion constraint; callers treat them the same.
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewNotBookableError reports a reservation attempt against a vehicle whose
// publication status is not active.
func NewNotBookableError(vehicleID, status string) *Error {
	return &Error{
		Code:    CodeNotBookable,
		Message: fmt.Sprintf("vehicle %s is not bookable (publication status: %s)", vehicleID, status),
	}
}

// NewInvalidStateError reports a lifecycle transition requested from a state
// that does not permit it.
func NewInvalidStateError(from, to string) *Error {
	return &Error{
		Code:    CodeInvalidState,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

// NewUnavailableError reports a transient storage or network failure. The
// caller may retry the whole operation; reservation retries are safe because
// the exclusion constraint prevents duplicate occupancy.
func NewUnavailableError(message string) *Error {
	return &Error{Code: CodeUnavailable, Message: message}
}
