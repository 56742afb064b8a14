// Package handlerr defines the engine-level error taxonomy (spec §7): the
// distinction between a rejected command, an unknown kind, a storage
// failure, and an invariant violation, each with different propagation
// rules.
package handlerr

import "errors"

// Kind classifies an engine-level failure for the caller's result tuple.
type Kind string

const (
	// KindValidation marks a handler-rejected command: surfaced to the
	// caller, no events written.
	KindValidation Kind = "VALIDATION_ERROR"
	// KindUnknownCommand marks routing to an unregistered command kind:
	// surfaced to the caller.
	KindUnknownCommand Kind = "UNKNOWN_COMMAND"
	// KindUnknownEvent marks an unregistered event kind encountered during
	// fold: always fatal, never recovered locally.
	KindUnknownEvent Kind = "UNKNOWN_EVENT"
	// KindStorage marks a journal failure: fatal to the current operation.
	KindStorage Kind = "STORAGE_ERROR"
	// KindInvariant marks a reducer or handler bug: fatal at the process
	// level.
	KindInvariant Kind = "INVARIANT_VIOLATION"
)

// Error wraps an underlying error with a Kind so callers can branch on
// "what category of failure is this" without string-matching messages.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// ErrUnknownCommand is a sentinel matched with errors.Is by callers that
// only care whether routing failed, not the full Kind taxonomy.
var ErrUnknownCommand = errors.New("unknown command kind")

// ErrUnknownEvent is the fatal counterpart raised during fold.
var ErrUnknownEvent = errors.New("unknown event kind")
