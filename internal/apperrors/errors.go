package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can react without string matching.
type Kind int

const (
	// KindValidation covers input rejected before any remote call is made.
	KindValidation Kind = iota + 1
	// KindAuth covers operations that require an authenticated actor.
	KindAuth
	// KindNotFound covers operations targeting a nonexistent record.
	KindNotFound
	// KindConflict covers id collisions and serialization violations.
	KindConflict
	// KindRemote covers infrastructural failures of the backing stores.
	KindRemote
)

// String returns a short machine-friendly name for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Error is the application error carrying a kind, a user-facing message and
// an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two application errors by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// New creates a new application error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a new application error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a kind and message.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, or 0 if err is not an application error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
