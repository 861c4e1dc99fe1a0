/*
Package sexp implements the canonical abstract syntax tree.

The canonical AST is a homogenous tree: every node carries a tag (e.g.
"send", "lvasgn", "if") and an ordered list of children. Children are either
nodes again or atoms: symbols, strings, numbers, booleans, or nil. Printing
follows the conventions of Ruby s-expressions,

    s(:lvasgn, :foo, s(:send, s(:lvar, :foo), :+, s(:int, 1)))

which makes test expectations easy to read and write.

Nodes carry an optional source line and, for commentable constructs, the
comment text preceding them. Line numbers missing after rewriting are filled
in by PropagateLines.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sexp

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rparse.sexp'.
func tracer() tracing.Trace {
	return tracing.Select("rparse.sexp")
}
