package ripperparser

import (
	"errors"
	"fmt"
)

// --- Positions -------------------------------------------------------------

// Pos is a source position of a leaf token, as reported by the grammar
// engine. Lines start at the line offset given to the parser (usually 1),
// columns start at 0.
type Pos struct {
	Line int
	Col  int
}

// IsNull returns true for the zero position, which is used for tokens
// without position information.
func (p Pos) IsNull() bool {
	return p == Pos{}
}

// Shift returns a position moved down by n lines.
func (p Pos) Shift(n int) Pos {
	if p.IsNull() {
		return p
	}
	p.Line += n
	return p
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// --- Errors ----------------------------------------------------------------

// SyntaxError is raised for input which cannot be parsed: genuine grammar
// errors reported by the engine, invalid class names, alias targets,
// assignment targets or parameters, and literals which do not decode to
// valid text.
//
// The value of Error() will contain the position, if there is one.
type SyntaxError struct {
	Pos      Pos
	Filename string
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Pos.IsNull() {
		if e.Filename != "" {
			return fmt.Sprintf("%s: %s", e.Filename, e.Msg)
		}
		return e.Msg
	}
	if e.Filename != "" {
		return fmt.Sprintf("%s:%s: %s", e.Filename, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Syntaxf creates a syntax error at a given position.
func Syntaxf(pos Pos, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// InternalError signals a broken invariant of the rewriting machinery, e.g.
// a mismatch on the operator stack or a raw node nobody knows how to handle.
// It is a defect, not a property of the input.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Msg
}

// Internalf creates an internal error.
func Internalf(format string, args ...interface{}) *InternalError {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}

// IsSyntaxError is a predicate: is err (or an error it wraps) a syntax error?
func IsSyntaxError(err error) bool {
	var serr *SyntaxError
	return errors.As(err, &serr)
}

// IsInternalError is a predicate: is err (or an error it wraps) an internal error?
func IsInternalError(err error) bool {
	var ierr *InternalError
	return errors.As(err, &ierr)
}
