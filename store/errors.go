package store

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
)

// StatusCode represents the category of a command rejection. Not-found and
// unavailable outcomes come from repositories and transports as sentinels or
// gRPC statuses, never as command rejections.
type StatusCode int

const (
	// StatusInvalidArgument: the command itself is malformed. HTTP 400.
	StatusInvalidArgument StatusCode = iota
	// StatusFailedPrecondition: the command is well formed but the current
	// state refuses it. HTTP 409.
	StatusFailedPrecondition
)

// GRPCCode is the gRPC code a rejection travels as.
func (s StatusCode) GRPCCode() codes.Code {
	switch s {
	case StatusInvalidArgument:
		return codes.InvalidArgument
	case StatusFailedPrecondition:
		return codes.FailedPrecondition
	default:
		return codes.Unknown
	}
}

func (s StatusCode) String() string {
	switch s {
	case StatusInvalidArgument:
		return "INVALID_ARGUMENT"
	case StatusFailedPrecondition:
		return "FAILED_PRECONDITION"
	default:
		return "UNKNOWN"
	}
}

// CommandError is returned when a command is rejected by business logic.
// Rejections never change aggregate state.
type CommandError struct {
	Code    StatusCode
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

// NewInvalidArgument creates a CommandError for invalid input.
func NewInvalidArgument(message string) *CommandError {
	return &CommandError{Code: StatusInvalidArgument, Message: message}
}

// NewInvalidArgumentf creates an invalid-input CommandError with a formatted message.
func NewInvalidArgumentf(format string, args ...interface{}) *CommandError {
	return &CommandError{Code: StatusInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NewFailedPrecondition creates a CommandError for violated preconditions.
func NewFailedPrecondition(message string) *CommandError {
	return &CommandError{Code: StatusFailedPrecondition, Message: message}
}

// NewFailedPreconditionf creates a CommandError with a formatted message.
func NewFailedPreconditionf(format string, args ...interface{}) *CommandError {
	return &CommandError{Code: StatusFailedPrecondition, Message: fmt.Sprintf(format, args...)}
}

// AsCommandError unwraps err looking for a CommandError.
func AsCommandError(err error) (*CommandError, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr, true
	}
	return nil, false
}
