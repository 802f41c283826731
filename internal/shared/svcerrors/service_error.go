package svcerrors

import (
	"errors"
	"fmt"
)

const (
	categoryInvalidArgument  = "invalid_argument"
	categoryResourceConflict = "resource_conflict"
	categoryInternal         = "internal"
)

const (
	errorCodeInternalUndefined = "SYS_9001"
)

// Exit codes reported by the pipeline binaries. Anything nonzero
// terminates the run; parse-stage filters never reach this layer.
const (
	ExitInternal        = 1
	ExitInvalidArgument = 2
	ExitConflict        = 3
)

// NewInvalidArgumentError creates a new ServiceError with category invalid_argument.
func NewInvalidArgumentError(code, message string, cause error) *ServiceError {
	return &ServiceError{
		Category: categoryInvalidArgument,
		Code:     code,
		Message:  message,
		Cause:    cause,
		ExitCode: ExitInvalidArgument,
	}
}

// NewInternalError creates a new ServiceError with category internal.
func NewInternalError(code string, cause error) *ServiceError {
	return &ServiceError{
		Category: categoryInternal,
		Code:     code,
		Message:  "internal error",
		Cause:    cause,
		ExitCode: ExitInternal,
	}
}

// NewInternalErrorUndefined creates a new internal ServiceError with the
// generic SYS code, for failures without a service-owned code.
func NewInternalErrorUndefined(cause error) *ServiceError {
	return NewInternalError(errorCodeInternalUndefined, cause)
}

// NewResourceConflictError creates a new ServiceError with category resource_conflict.
func NewResourceConflictError(code, message string, cause error) *ServiceError {
	return &ServiceError{
		Category: categoryResourceConflict,
		Code:     code,
		Message:  message,
		Cause:    cause,
		ExitCode: ExitConflict,
	}
}

// ServiceError represents a service-level error with category, code,
// message, and cause. It implements the error interface and supports
// error wrapping.
type ServiceError struct {
	Category string // invalid_argument, resource_conflict or internal
	Code     string // service-owned stable code (e.g. EXT_9000)
	Message  string // human-readable
	Cause    error  // wrapped underlying error
	ExitCode int    // process exit code when the error is fatal
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error to support errors.Is and errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// As extracts a ServiceError from the error chain.
// It returns (*ServiceError, true) if err wraps a ServiceError, otherwise (nil, false).
func As(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

func (e *ServiceError) IsInternalError() bool {
	return e.Category == categoryInternal
}
