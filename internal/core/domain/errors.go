package domain

import "errors"

type ErrorKind string

const (
	ErrorKindInvalidInput      ErrorKind = "invalid-input"
	ErrorKindSourceUnavailable ErrorKind = "source-unavailable"
	ErrorKindUnexpected        ErrorKind = "unexpected"
)

// Error carries an error kind so callers can branch on the failure class
// instead of matching error identity or message text.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewInvalidInput(message string) *Error {
	return &Error{Kind: ErrorKindInvalidInput, Message: message}
}

func NewSourceUnavailable(message string, cause error) *Error {
	return &Error{Kind: ErrorKindSourceUnavailable, Message: message, cause: cause}
}

func NewUnexpected(message string, cause error) *Error {
	return &Error{Kind: ErrorKindUnexpected, Message: message, cause: cause}
}

// KindOf extracts the kind of err, unwrapping as needed. Errors that do not
// carry a kind are classified as unexpected.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ErrorKindUnexpected
}
