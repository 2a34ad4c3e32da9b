// Package gameerr provides the error taxonomy shared by the game packages.
package gameerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how the game reacts to it.
type Kind int

const (
	// KindUnknown is the zero value for errors produced outside this package.
	KindUnknown Kind = iota
	// KindInput marks a bad answer from a player. Recovered by re-prompting.
	KindInput
	// KindRule marks an action the rules do not allow. The action is aborted
	// and the game continues.
	KindRule
	// KindInvariant marks a state the rules can never reach. The session ends.
	KindInvariant
	// KindIO marks a failure reading or writing templates, saves or logs.
	KindIO
)

var kindNames = map[Kind]string{
	KindUnknown:   "UNKNOWN",
	KindInput:     "INPUT",
	KindRule:      "RULE",
	KindInvariant: "INVARIANT",
	KindIO:        "IO",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// Error is the structured error type for the game.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "deck.take"
	Message string
	Path    string // offending file for IO errors
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind && (t.Op == "" || t.Op == e.Op)
	}
	return false
}

// Sentinels usable with errors.Is.
var (
	ErrInput     = &Error{Kind: KindInput}
	ErrRule      = &Error{Kind: KindRule}
	ErrInvariant = &Error{Kind: KindInvariant}
	ErrIO        = &Error{Kind: KindIO}
)

// Invariant reports a programmer error or corrupt state.
func Invariant(op, format string, args ...any) *Error {
	return &Error{Kind: KindInvariant, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Rule reports an action the rules forbid. The message is shown to players.
func Rule(op, format string, args ...any) *Error {
	return &Error{Kind: KindRule, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Input reports an invalid answer.
func Input(op, format string, args ...any) *Error {
	return &Error{Kind: KindInput, Op: op, Message: fmt.Sprintf(format, args...)}
}

// IO wraps a file access failure with the path involved.
func IO(op, path string, cause error) *Error {
	return &Error{Kind: KindIO, Op: op, Message: "i/o failure", Path: path, Cause: cause}
}

// KindOf returns the kind of the first *Error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Fatal reports whether err must end the session.
func Fatal(err error) bool {
	switch KindOf(err) {
	case KindRule, KindInput:
		return false
	}
	return err != nil
}
