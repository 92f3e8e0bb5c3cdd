// Package errors provides error handling for the ZDM server.
//
// It re-exports the parts of github.com/cockroachdb/errors this server uses
// (wrapping, details and marks) and defines the error taxonomy shared by every layer:
//
//	// Wrap with operation context
//	if err := store.Insert(ctx, row); err != nil {
//	    return errors.Wrapf(err, "insert schedule %d", row.Id)
//	}
//
//	// Classify
//	if errors.Is(err, errors.ErrNotFound) {
//	    // 404
//	}
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New   = crdb.New
	Newf  = crdb.Newf
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
)

// Details carried to callers (worker descriptions)
var (
	WithDetail    = crdb.WithDetail
	GetAllDetails = crdb.GetAllDetails
)

// Error inspection
var (
	Is    = crdb.Is
	IsAny = crdb.IsAny
	As    = crdb.As
	Mark  = crdb.Mark
)

// Sentinel errors. Wrap them (or Mark a typed error with them) to keep
// errors.Is working across layers.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates malformed or out-of-range input
	ErrInvalidRequest = New("invalid request")

	// ErrUnauthorized indicates the request lacks valid credentials
	ErrUnauthorized = New("unauthorized")

	// ErrConflict indicates a uniqueness violation
	ErrConflict = New("resource conflict")

	// ErrTimeout indicates an operation ran past its deadline
	ErrTimeout = New("operation timed out")

	// ErrRemoteFailure indicates the external worker reported FAILED
	ErrRemoteFailure = New("remote job failed")

	// ErrDataProcessing indicates a persistence failure
	ErrDataProcessing = New("data processing failed")

	// ErrResourceExhausted indicates a bounded retry ran out of attempts
	ErrResourceExhausted = New("resource exhausted")

	// ErrScheduleType indicates a stored or requested schedule type is unsupported
	ErrScheduleType = New("unsupported schedule type")
)

// ValidationError names the first rule a request failed and the offending value.
type ValidationError struct {
	Rule  string
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("validation failed: %s (%s)", e.Rule, e.Field)
	}
	return fmt.Sprintf("validation failed: %s (%s=%q)", e.Rule, e.Field, e.Value)
}

// NewValidationError returns a ValidationError marked as ErrInvalidRequest.
func NewValidationError(rule, field, value string) error {
	return Mark(&ValidationError{Rule: rule, Field: field, Value: value}, ErrInvalidRequest)
}

// ScheduleTypeError reports a RecurrenceType code nothing knows how to handle.
type ScheduleTypeError struct {
	Type int
}

func (e *ScheduleTypeError) Error() string {
	return fmt.Sprintf("unsupported schedule type %d", e.Type)
}

// NewScheduleTypeError returns a ScheduleTypeError marked as ErrScheduleType.
func NewScheduleTypeError(t int) error {
	return Mark(&ScheduleTypeError{Type: t}, ErrScheduleType)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}
