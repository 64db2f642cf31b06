package aeo

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// EINSUFFICIENT means there is not enough content to analyze.
	EINSUFFICIENT = "insufficient_content"
	// EQUOTA means the user's monthly analysis or cost quota is exhausted.
	EQUOTA = "quota_exceeded"
	// EPROVIDER means a remote suggestion provider failed.
	EPROVIDER = "provider_error"
	// ETIMEOUT means a remote suggestion provider did not answer in time.
	ETIMEOUT = "provider_timeout"
	// EUNKNOWNTYPE means a schema type is not registered.
	EUNKNOWNTYPE = "unknown_schema_type"
	// ESCHEMA means a content record cannot be compiled at all.
	ESCHEMA = "schema_validation"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("aeo error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// IsRetryable reports whether an operation that failed with err may succeed
// if attempted again later.
func IsRetryable(err error) bool {
	switch ErrorCode(err) {
	case EPROVIDER, ETIMEOUT:
		return true
	}
	return false
}
