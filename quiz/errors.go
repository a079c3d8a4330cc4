package quiz

import (
	"errors"
	"fmt"
)

// Kind classifies failures so callers can pick a recovery action.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindInvalidQuizState Kind = "invalid_quiz_state"
	KindStore            Kind = "store"
	KindUnauthenticated  Kind = "unauthenticated"
	KindForbidden        Kind = "forbidden"
	KindNotFound         Kind = "not_found"
)

// Error carries a kind, a human message and, for validation failures, the
// offending fields.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

// Sentinels match any *Error of the same kind through errors.Is.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrInvalidQuizState = &Error{Kind: KindInvalidQuizState}
	ErrStore            = &Error{Kind: KindStore}
	ErrUnauthenticated  = &Error{Kind: KindUnauthenticated}
	ErrForbidden        = &Error{Kind: KindForbidden}
	ErrNotFound         = &Error{Kind: KindNotFound}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of err, or "" when err is not a quiz error.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func InvalidQuizState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidQuizState, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// StoreFailure wraps an error coming back from a store. Errors that already
// carry a kind (a missing row, for instance) pass through unchanged.
func StoreFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != "" {
		return err
	}
	return &Error{Kind: KindStore, Message: "failed to " + op, Err: err}
}
