// Package dErrors defines coded domain errors.
//
// Errors are values, not exceptions: every ledger operation returns either a
// result or a coded error, so callers branch deterministically on the code.
// Stores return sentinel errors (pkg/platform/sentinel) for infrastructure
// facts; services translate those into coded errors at the domain boundary.
package dErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a closed enumeration of domain error codes per ledger, plus the
// generic transport-level codes shared by all modules.
type Code string

const (
	// Shared by both ledgers.
	CodeUnauthorized Code = "unauthorized"

	// Allocation ledger.
	CodeInvalidPercentage  Code = "invalid_percentage"
	CodeAssetClassNotFound Code = "asset_class_not_found"

	// Benefit ledger.
	CodeInvalidParameters Code = "invalid_parameters"
	CodeAlreadyRegistered Code = "already_registered"
	CodeRetireeNotFound   Code = "retiree_not_found"

	// Generic codes used at the transport and infrastructure edges.
	CodeBadRequest Code = "bad_request"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeInternal   Code = "internal"
)

// Error is a domain error carrying a stable code and an operator-facing
// message. The wrapped cause, if any, is never serialized to clients.
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

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the outermost domain code, or CodeInternal for plain errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code onto an HTTP status for the transport edge.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeInvalidPercentage, CodeInvalidParameters, CodeBadRequest:
		return http.StatusBadRequest
	case CodeAssetClassNotFound, CodeRetireeNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyRegistered, CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
