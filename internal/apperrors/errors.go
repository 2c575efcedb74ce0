package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	// KindValidation is a bad client request.
	KindValidation Kind = "validation"
	// KindConfiguration means the deployment is missing something it needs.
	KindConfiguration Kind = "configuration"
	// KindUpstream means the completion service rejected or failed the call.
	KindUpstream Kind = "upstream"
	// KindParse means the completion could not be read under the active output contract.
	KindParse Kind = "parse"
	KindUnexpected Kind = "unexpected"
)

// UnexpectedMessage is returned to callers for anything that was not classified.
const UnexpectedMessage = "Unexpected error while handling request."

// Error carries a caller-facing Message and an optional diagnostic Details
// string that is safe to return to the caller.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Details string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// Wrap returns nil for a nil err. An err that already is an *Error is returned unchanged.
func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Details: err.Error(),
		Cause:   err,
	}
}

// WithDetails sets the diagnostic string and returns e for chaining.
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

// KindOf reports the kind of the first *Error in the chain, or KindUnexpected.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindUnexpected
}

func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code the endpoint answers with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Public splits err into the message and details that may be shown to a caller.
// Unclassified errors collapse into UnexpectedMessage.
func Public(err error) (message, details string) {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Message, typed.Details
	}
	if err == nil {
		return UnexpectedMessage, ""
	}
	return UnexpectedMessage, err.Error()
}
