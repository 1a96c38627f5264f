package scoring

import (
	"errors"
	"fmt"
)

// Kind classifies a scoring error so callers can match on the class of
// failure instead of string-comparing messages.
type Kind string

const (
	KindInvalidInput        Kind = "INVALID_INPUT"
	KindTerminalState       Kind = "TERMINAL_STATE"
	KindTurnLocked          Kind = "TURN_LOCKED"
	KindEmptyHistory        Kind = "EMPTY_HISTORY"
	KindInsufficientPlayers Kind = "INSUFFICIENT_PLAYERS"
	KindNotFound            Kind = "NOT_FOUND"
)

// Error is the domain error type for the scoring engine.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target matches this error by kind, so sentinel
// comparisons via errors.Is work across distinct messages.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// NewError creates a domain error with a kind and message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf creates a domain error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is matching.
var (
	ErrInvalidInput        = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrTerminalState       = &Error{Kind: KindTerminalState, Message: "terminal state"}
	ErrTurnLocked          = &Error{Kind: KindTurnLocked, Message: "turn locked"}
	ErrEmptyHistory        = &Error{Kind: KindEmptyHistory, Message: "empty history"}
	ErrInsufficientPlayers = &Error{Kind: KindInsufficientPlayers, Message: "insufficient players"}
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "not found"}
)

// KindOf extracts the kind from an error chain, or "" if the error is not a
// scoring error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
