package schedq

import (
	"errors"
	"fmt"
)

// Error codes used across the module.
const (
	EINTERNAL  = "internal"   // unexpected internal failure
	EINVALID   = "invalid"    // request or argument has the wrong shape
	EMALFORMED = "malformed"  // persisted snapshot has an incompatible layout
	ENOTFOUND  = "not_found"  // entity does not exist
	ESTORAGE   = "storage"    // on-disk read or write failed
)

// Error represents an application-specific error with a machine-readable
// code and a human-readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("schedq error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode returns the code of the given error, if it is an *Error.
// Returns EINTERNAL for non-application errors and an empty string for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the given error, if it is an *Error.
// Returns a generic message for non-application errors and an empty string
// for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper for constructing an *Error with a formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
