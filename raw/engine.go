package raw

import (
	ripperparser "github.com/mvz/ripper-parser-sub000"
)

// Handler receives the events of a grammar engine and builds raw values from
// them.
type Handler interface {
	// ScannerEvent is called for every token, including trivia such as white
	// space and comments. kind is the event name without prefix, e.g. "ident",
	// "tstring_content", "comment".
	ScannerEvent(kind, text string, pos ripperparser.Pos) (Value, error)
	// ParserEvent is called for every reduced production, with the values of
	// its sub-productions as arguments.
	ParserEvent(event string, args []Value) (Value, error)
	// ParseError is called for diagnostics of the grammar engine. A non-nil
	// return value aborts parsing.
	ParseError(msg string, pos ripperparser.Pos) error
}

// Engine is a grammar engine: it parses source text and reports events to a
// handler. It returns the value the handler produced for the `program`
// production.
//
// Lines reported to the handler start at lineno.
type Engine interface {
	Parse(src string, filename string, lineno int, h Handler) (Value, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(src string, filename string, lineno int, h Handler) (Value, error)

// Parse calls f.
func (f EngineFunc) Parse(src string, filename string, lineno int, h Handler) (Value, error) {
	return f(src, filename, lineno, h)
}
