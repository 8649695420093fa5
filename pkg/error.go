package pkg

// Sentinel errors for command-line level failures. Language errors are
// defined by package lang. These errors can be tested using errors.Is.

import (
	"fmt"
	"slices"
	"strings"
)

// Error represents a chain of errors.
type Error []error

// ErrSourceNotFound is returned when a source path names no readable file,
// either directly or relative to any directory of the search path.
var ErrSourceNotFound = MakeErrorf("source not found")

// ErrInvalidFormat is returned when an unsupported output format is
// requested. It should be wrapped with the valid formats.
var ErrInvalidFormat = MakeErrorf("invalid format")

// ErrConfigExists is returned when a configuration file would be overwritten
// without being forced.
var ErrConfigExists = MakeErrorf("configuration file exists")

// ErrWriteConfig is returned when writing a configuration file fails.
var ErrWriteConfig = MakeErrorf("failed to write configuration")

// MakeError constructs an Error from the given errors.
// The errors are stored in the order they are provided:
// the first argument is the innermost error in the chain.
// Nil is returned if no errors are provided.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error returns a concatenated string representation of all errors
// in the error chain, separated by ": ", from innermost to outermost.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range e {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Is reports whether target is an Error whose chain begins e's chain, so
// any error wrapped from a sentinel matches that sentinel.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i := range t {
		if t[i] != e[i] {
			return false
		}
	}

	return true
}

// Wrap returns a copy of the receiver with err appended as the outermost
// context.
func (e Error) Wrap(err ...error) Error {
	return append(slices.Clip(e), err...)
}

// Wrapf is like Wrap with a formatted message.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap returns the slice of errors contained in the receiver.
func (e Error) Unwrap() []error {
	return e
}

// UnwrapErrors recursively unwraps an error chain and returns a slice
// containing all errors in the chain, starting from the innermost error.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	if e, ok := err.(interface{ Unwrap() []error }); ok {
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}

		// An Error is flattened into its elements.
		if _, ok := err.(Error); ok {
			return chain
		}
	} else if e, ok := err.(interface{ Unwrap() error }); ok {
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
