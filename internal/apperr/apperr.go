// Package apperr defines the registry's error taxonomy. Every error that
// reaches a caller because of bad input or a missing record carries a Kind
// so transport layers can translate it without string matching.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInvalidField         Kind = "invalid_field"
	KindMissingRequiredField Kind = "missing_required_field"
	KindEmptyCollection      Kind = "empty_collection"
	KindInvalidImport        Kind = "invalid_import"
	KindParseFailure         Kind = "parse_failure"
	KindNotFound             Kind = "not_found"
	KindPersistence          Kind = "persistence"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its kind.
var (
	ErrInvalidField         = &Error{Kind: KindInvalidField, Msg: "invalid field"}
	ErrMissingRequiredField = &Error{Kind: KindMissingRequiredField, Msg: "missing required field"}
	ErrEmptyCollection      = &Error{Kind: KindEmptyCollection, Msg: "empty collection"}
	ErrInvalidImport        = &Error{Kind: KindInvalidImport, Msg: "invalid import"}
	ErrParseFailure         = &Error{Kind: KindParseFailure, Msg: "parse failure"}
	ErrNotFound             = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrPersistence          = &Error{Kind: KindPersistence, Msg: "persistence failure"}
)

type Error struct {
	Kind  Kind
	Msg   string
	Field string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Field reports a problem with one named input field.
func Field(kind Kind, field, msg string) error {
	return &Error{Kind: kind, Field: field, Msg: msg}
}

func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
