// Package dErrors provides code-tagged domain errors so transports can map
// failures to responses without string matching.
package dErrors

import (
	"errors"
	"fmt"
)

// Code identifies the failure class of a domain error.
type Code string

const (
	// CodeUnauthorized marks a caller whose role does not permit the operation.
	CodeUnauthorized Code = "unauthorized"
	// CodeSystemStopped marks a mutation attempted while the lifecycle switch is Stopped.
	CodeSystemStopped Code = "system_stopped"
	// CodeAlreadyRegistered marks a second registration of the same user.
	CodeAlreadyRegistered Code = "already_registered"
	// CodeAlreadyBound marks a deployment for a user that already has a live deposit address.
	CodeAlreadyBound Code = "already_bound"
	// CodeInvalidAddress marks a null or malformed address where a live one is required.
	CodeInvalidAddress Code = "invalid_address"
	// CodeInsufficientBalance marks a debit or withdrawal exceeding the user's balance.
	CodeInsufficientBalance Code = "insufficient_balance"
	// CodeArithmeticOverflow marks a credit that would exceed the representable balance range.
	CodeArithmeticOverflow Code = "arithmetic_overflow"
	// CodeExternalCallFailed marks a vault or factory call that failed or reverted.
	CodeExternalCallFailed Code = "external_call_failed"

	CodeBadRequest Code = "bad_request"
	CodeNotFound   Code = "not_found"
	CodeInternal   Code = "internal"
)

// Error carries a Code alongside the message. It supports errors.Is/As and
// wraps an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. A nil err yields nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		de = nil
	}
	return false
}

// CodeOf extracts the outermost domain code, defaulting to CodeInternal for
// untagged errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
