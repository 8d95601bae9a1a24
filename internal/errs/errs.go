// Package errs classifies pipeline failures by stage so callers can tell
// a bad config apart from a network or rendering problem.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the pipeline stage a failure came from.
type Kind int

const (
	Unknown Kind = iota
	Config
	Network
	Parse
	Schema
	IO
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Network:
		return "network"
	case Parse:
		return "parse"
	case Schema:
		return "schema"
	case IO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is a failure tagged with its Kind and the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with kind and op. A nil err yields nil.
func E(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf is E with a formatted cause; %w is honoured.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case Config:
		return 2
	case Network:
		return 3
	case Parse:
		return 4
	case Schema:
		return 5
	case IO:
		return 6
	default:
		return 1
	}
}
