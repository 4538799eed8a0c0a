package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrValidation ErrorCode = iota + 1000
	ErrNotFound
	ErrSchedulingConflict
	ErrAlreadyCanceled
	ErrInvalidSlotTime
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details []string  `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code to the status returned at the boundary.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation, ErrSchedulingConflict, ErrAlreadyCanceled, ErrInvalidSlotTime:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors

// Validation carries the full list of field-level failures so handlers
// can return them as an errors array.
func Validation(details []string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: "validation failed",
		Details: details,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func SchedulingConflict() *AppError {
	return &AppError{
		Code:    ErrSchedulingConflict,
		Message: "Doctor is not available at this time",
	}
}

func AlreadyCanceled() *AppError {
	return &AppError{
		Code:    ErrAlreadyCanceled,
		Message: "Appointment is already canceled",
	}
}

func InvalidSlotTime() *AppError {
	return &AppError{
		Code:    ErrInvalidSlotTime,
		Message: "Invalid slot time",
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}
