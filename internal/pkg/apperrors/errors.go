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

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Member errors
var (
	ErrMemberNotFound      = NewResourceNotFoundError("member not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidReferralCode = errors.New("invalid referral code")
)

// Business profile errors
var (
	ErrBusinessProfileNotFound = NewResourceNotFoundError("business profile not found")
	ErrBusinessProfilesMissing = NewValidationError("at least one business profile is required")
	ErrInvalidBusinessType     = NewValidationError("invalid or missing business type")
	ErrRejectionReasonRequired = NewValidationError("rejection reason is required when status is Rejected")
)

// Category errors
var (
	ErrCategoryNotFound = NewResourceNotFoundError("category not found")
)

// Family errors
var (
	ErrFamilyNotFound      = NewResourceNotFoundError("family details not found")
	ErrFamilyAlreadyExists = NewConflictError("family details already exist for this member")
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

// NewValidationError creates a validation failure with a client-facing message.
func NewValidationError(format string, args ...any) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: fmt.Sprintf(format, args...),
	}
}

// Is returns whether err matches target or any of errList.
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

// CustomError pairs a sentinel with the message shown to clients.
type CustomError struct {
	Err     error
	Message string
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
