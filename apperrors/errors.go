// Package apperrors defines the business errors surfaced to callers, each
// with a stable code so transports can render them without parsing text.
package apperrors

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeForbiddenOperation Code = "FORBIDDEN_OPERATION"
	CodeEventNotFound      Code = "EVENT_NOT_FOUND"
	CodeProposalNotFound   Code = "PROPOSAL_NOT_FOUND"
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeReviewDisabled     Code = "REVIEW_DISABLED"
	CodeAPIKeyInvalid      Code = "API_KEY_INVALID"
	CodeSlugAlreadyExists  Code = "SLUG_ALREADY_EXISTS"
	CodeValidationFailed   Code = "VALIDATION_FAILED"
	CodeTransientFailure   Code = "TRANSIENT_FAILURE"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus maps a code to the status the HTTP transport answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeForbiddenOperation, CodeReviewDisabled:
		return http.StatusForbidden
	case CodeEventNotFound, CodeProposalNotFound, CodeUserNotFound:
		return http.StatusNotFound
	case CodeAPIKeyInvalid, CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeSlugAlreadyExists:
		return http.StatusConflict
	case CodeValidationFailed:
		return http.StatusBadRequest
	case CodeTransientFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a business error. Two errors match under errors.Is when their
// codes are equal, so callers compare against the sentinels below.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

var (
	ErrForbiddenOperation = New(CodeForbiddenOperation, "forbidden operation")
	ErrEventNotFound      = New(CodeEventNotFound, "event not found")
	ErrProposalNotFound   = New(CodeProposalNotFound, "proposal not found")
	ErrUserNotFound       = New(CodeUserNotFound, "user not found")
	ErrReviewDisabled     = New(CodeReviewDisabled, "review is disabled for this event")
	ErrAPIKeyInvalid      = New(CodeAPIKeyInvalid, "invalid api key")
	ErrSlugAlreadyExists  = New(CodeSlugAlreadyExists, "slug already exists")
	ErrTransientFailure   = New(CodeTransientFailure, "temporary failure, try again")
	ErrUnauthenticated    = New(CodeUnauthenticated, "authentication required")
)

// Validation builds a VALIDATION_FAILED error carrying a readable message.
func Validation(message string) *Error {
	return New(CodeValidationFailed, message)
}

// CodeOf returns the code carried by err, CodeInternal for anything that is
// not a business error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus returns the HTTP status for err.
func HTTPStatus(err error) int {
	return CodeOf(err).HTTPStatus()
}

// IsBusiness reports whether err is one of the documented business errors.
func IsBusiness(err error) bool {
	return CodeOf(err) != CodeInternal
}
