// Package xpatherr provides the structured error values shared by every
// stage of the engine (parser, compiler, evaluator, function library).
//
// Every error produced anywhere in the engine carries a W3C XPath/XQuery
// error code so callers can dispatch on it programmatically, plus an
// optional source position for errors discovered before evaluation.
package xpatherr

import (
	"fmt"
	"strings"
)

// Code is a W3C XPath/XQuery Functions and Operators error code.
type Code string

// Recognised error codes. See spec §7 for the meaning of each.
const (
	XPST0003 Code = "XPST0003" // static syntax / grammar rejection
	XPST0008 Code = "XPST0008" // undeclared variable at evaluation time
	XPST0017 Code = "XPST0017" // unknown function or wrong arity at compile time
	XPTY0004 Code = "XPTY0004" // type error during evaluation
	XPTY0020 Code = "XPTY0020" // non-node operand to union/intersect/except
	FORG0001 Code = "FORG0001" // invalid lexical form during cast/constructor
	FORG0004 Code = "FORG0004" // one-or-more cardinality violation
	FORG0005 Code = "FORG0005" // exactly-one/zero-or-one cardinality violation
	FORG0006 Code = "FORG0006" // invalid argument to EBV / aggregate / min-max
	FOAR0001 Code = "FOAR0001" // division by zero
	FOAR0002 Code = "FOAR0002" // overflow, impossible numeric operation
	FOCH0002 Code = "FOCH0002" // unsupported collation URI
	FORX0002 Code = "FORX0002" // invalid regular expression
	FORX0004 Code = "FORX0004" // invalid replacement string
	FODC0005 Code = "FODC0005" // document not available
	FOER0000 Code = "FOER0000" // generic dynamic error
)

// Position is a 1-based line/column/offset into the original source text.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Error is the engine's single error type. It is returned by every public
// entry point; nothing in the engine panics on well-formed Go inputs.
type Error struct {
	code     Code
	message  string
	pos      Position
	hasPos   bool
	source   string
	wrapped  error
}

// New creates an Error with no position information (typical of dynamic
// errors raised deep inside the evaluator or a builtin function).
func New(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// NewAt creates an Error anchored at a source position (typical of parser
// and compiler errors).
func NewAt(code Code, pos Position, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...), pos: pos, hasPos: true}
}

// Wrap attaches an underlying cause to an Error, preserving errors.Is/As.
func (e *Error) Wrap(cause error) *Error {
	e.wrapped = cause
	return e
}

// WithSource attaches the original source text, enabling Format to render
// a caret-pointer line for positioned errors.
func (e *Error) WithSource(source string) *Error {
	e.source = source
	return e
}

// Code returns the error's W3C code.
func (e *Error) Code() Code { return e.code }

// Position returns the error's source position and whether one is set.
func (e *Error) Position() (Position, bool) { return e.pos, e.hasPos }

// Error implements the error interface.
func (e *Error) Error() string {
	if e.hasPos {
		return fmt.Sprintf("err:%s at %d:%d: %s", e.code, e.pos.Line, e.pos.Column, e.message)
	}
	return fmt.Sprintf("err:%s: %s", e.code, e.message)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As.
func (e *Error) Unwrap() error { return e.wrapped }

// Format renders the error, optionally with a source line and caret
// indicator pointing at the failing column (mirrors a compiler-style
// diagnostic; withSource is a no-op when no position or source is set).
func (e *Error) Format(withSource bool) string {
	if !withSource || !e.hasPos || e.source == "" {
		return e.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "err:%s at line %d, column %d: %s\n", e.code, e.pos.Line, e.pos.Column, e.message)

	lines := strings.Split(e.source, "\n")
	if e.pos.Line >= 1 && e.pos.Line <= len(lines) {
		line := lines[e.pos.Line-1]
		prefix := fmt.Sprintf("%4d | ", e.pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
		col := e.pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(prefix)+col-1))
		sb.WriteString("^")
	}
	return sb.String()
}

// IsCode reports whether err is an *Error with the given code, giving
// callers an `errors.Is`-style check on W3C codes. Only err itself is
// inspected; an *Error wrapped inside another error is not found.
func IsCode(err error, code Code) bool {
	var e *Error
	if x, ok := err.(*Error); ok {
		e = x
	} else {
		return false
	}
	return e.code == code
}
