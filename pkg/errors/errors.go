// Package errors carries the coded errors shared by the scene loader, the
// settings and config layers, the tree generator and the exporter.
//
// A code tells the CLI what went wrong without matching on message text. A
// bad scene file is INVALID_INPUT, a rejected setting is INVALID_CONFIG and
// a layer lookup past the stack is OUT_OF_RANGE:
//
//	if errors.Is(err, errors.ErrCodeOutOfRange) {
//	    // ask for a layer between 0 and LayerCount()-1
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code names a class of failure.
type Code string

const (
	// Rejected before any work starts.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"    // scene source, layer list or export arguments
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"   // settings, TOML overrides or generator parameters
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY" // scene whose layers fail validation

	// Lookups.
	ErrCodeOutOfRange   Code = "OUT_OF_RANGE"   // layer index outside the generated stack
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND" // scene or config path missing

	// Runs that did not finish.
	ErrCodeTimeout  Code = "TIMEOUT"        // scene program ran too long
	ErrCodeCanceled Code = "CANCELED"       // context ended during evaluation or generation
	ErrCodeInternal Code = "INTERNAL_ERROR" // a scene builtin panicked
)

// Error pairs a code with a message and, when it wraps another failure, the
// cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message", followed by the cause when there is one.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to the standard errors package.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap returns an Error that keeps cause in the chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the first *Error in err's chain carries code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns what the CLI prints for err: the bare message of an
// *Error, or err's own text otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
