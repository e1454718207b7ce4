// Package apperr defines the error taxonomy shared by repositories and
// services. Handlers translate kinds into HTTP statuses; nothing here knows
// about transport, SQL or Gin.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an outcome so callers can branch on the class of failure
// instead of matching message text.
type Kind int

const (
	// Fault covers infrastructure and programming failures: DB down,
	// unexpected driver error, broken invariant.
	Fault Kind = iota
	// Validation rejects input before any state is touched.
	Validation
	// NotFound means the referenced entity does not exist or is soft-deleted.
	NotFound
	// Occupied means the resource exists but is held by another principal.
	// Not retryable: the state is settled until that principal releases it.
	Occupied
	// Busy means a concurrent transaction held a row lock at this instant.
	// Retryable after a short pause.
	Busy
	// Conflict means the commit lost a serialization race or the state moved
	// under us. Retryable: the next attempt sees the settled state.
	Conflict
	// Unauthorized covers credential and permission failures.
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Occupied:
		return "occupied"
	case Busy:
		return "busy"
	case Conflict:
		return "conflict"
	case Unauthorized:
		return "unauthorized"
	default:
		return "fault"
	}
}

// Error carries a kind, an operator-facing message safe to show to clients,
// and the underlying cause which never leaves the server.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error with a kind and an operator-facing message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is New with fmt formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind anywhere in the chain. Unclassified errors are
// faults: the safe default is "do not retry, do not blame the caller".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Fault
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Retryable reports whether the same request may succeed if repeated.
// Busy and Conflict are transient by definition; everything else is settled.
func Retryable(err error) bool {
	k := KindOf(err)
	return k == Busy || k == Conflict
}

// Message returns the operator-facing message, or a neutral fallback for
// unclassified errors so internals never leak to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return "Error interno del servidor"
}
