/*
Package rewrite transforms a raw tree into the canonical AST.

A Processor holds a fixed table of handlers, one per raw node tag, built
once when the processor is created. Processing is recursive: a handler
consumes the fields of its raw node through a cursor and calls Process for
every child it needs in canonical form. Tokens (leaves) are handled by
kind. A raw node without a handler is an internal error; nothing is passed
through unprocessed.

Handlers are organized in groups, one per file: assignments, blocks and
exception handling, conditionals, literals, strings, loops, method calls,
method and class definitions, operators and pattern matching.

Some transformations depend on context: class variable assignments are
declarations (cvdecl) outside of method bodies and plain assignments
(cvasgn) inside, and a bare identifier matching the keyword rest parameter
of the enclosing method is a local variable read. This context is kept on a
scope stack, pushed and popped around method and class bodies.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rewrite

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rparse.rewrite'.
func tracer() tracing.Trace {
	return tracing.Select("rparse.rewrite")
}
