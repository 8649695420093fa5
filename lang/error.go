package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error returned by this package derives from exactly one of these, so
// callers can classify failures with errors.Is.
var (
	ErrLex                 = NewError("lex error")
	ErrParse               = NewError("parse error")
	ErrDuplicateDefinition = NewError("duplicate definition")
	ErrUndefinedReference  = NewError("undefined reference")
	ErrArity               = NewError("arity error")
	ErrType                = NewError("type error")
	ErrMissingReturn       = NewError("missing return")
	ErrDivisionByZero      = NewError("division by zero")
	ErrMaxDepthExceeded    = NewError("maximum call depth exceeded")
	ErrScopeReleased       = NewError("scope used after release")
	ErrReadInput           = NewError("failed to read input")
	ErrWriteOutput         = NewError("failed to write output")
)

// Position identifies a location in source text.
// Line and Column are 1-based; Offset is a 0-based byte offset.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// IsValid reports whether p refers to an actual source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// Error represents an error with an optional source position and structured
// logging attributes. It implements both error and slog.LogValuer.
type Error struct {
	base  *Error // sentinel this error derives from, nil for sentinels
	msg   string
	err   error // wrapped error (for errors.Unwrap)
	pos   Position
	attrs []slog.Attr
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError converts err to an *Error, preserving it if it already is one.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Kind returns the message of the sentinel the error derives from, such as
// "undefined reference".
func (e *Error) Kind() string {
	if e.base != nil {
		return e.base.msg
	}

	return e.msg
}

// Position returns the source position attached to the error, if any.
func (e *Error) Position() (Position, bool) {
	return e.pos, e.pos.IsValid()
}

// Error implements the error interface.
//
// The format is "<kind>[ at line L, column C][ (key=value ...)][: <cause>]".
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.pos.IsValid() {
		fmt.Fprintf(&sb, " at line %d, column %d", e.pos.Line, e.pos.Column)
	}

	if len(e.attrs) > 0 {
		sb.WriteString(" (")

		for i, a := range e.attrs {
			if i > 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(a.Key)
			sb.WriteByte('=')
			sb.WriteString(a.Value.String())
		}

		sb.WriteByte(')')
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is e or the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t == e || (e.base != nil && t == e.base)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.Any("position", e.pos))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// derive copies e, remembering the sentinel it came from.
func (e *Error) derive() *Error {
	d := *e
	if d.base == nil {
		d.base = e
	}

	return &d
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	d := e.derive()
	d.err = err

	return d
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	d := e.derive()
	d.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(d.attrs, e.attrs)
	copy(d.attrs[len(e.attrs):], attrs)

	return d
}

// WithPosition attaches a source position to the error.
func (e *Error) WithPosition(pos Position) *Error {
	d := e.derive()
	d.pos = pos

	return d
}

// Snippet renders the source line containing pos followed by a caret marker
// under the offending column. It returns "" when pos is outside source.
func Snippet(source string, pos Position) string {
	lines := strings.Split(source, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		return ""
	}

	var buf strings.Builder

	line := strings.TrimRight(lines[pos.Line-1], "\r")
	num := strconv.Itoa(pos.Line)

	buf.WriteString("  ")
	buf.WriteString(num)
	buf.WriteString(" | ")
	buf.WriteString(line)
	buf.WriteByte('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(num)+5)
	if pos.Column > 0 {
		padding += strings.Repeat(" ", pos.Column-1)
	}

	buf.WriteString(padding)
	buf.WriteString("^\n")

	return buf.String()
}
