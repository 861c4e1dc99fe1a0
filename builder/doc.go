/*
Package builder implements the raw tree preprocessor: a raw.Handler sitting
directly on top of the grammar engine.

By default it builds the raw tree the way Ripper's SexpBuilderPP does:
`…_new` events create an empty list, `…_add` events append to it, other
parser events become tagged nodes and scanner events become tokens. On top
of that it keeps some bookkeeping on the side:

  - a delimiter stack, so that every string content token knows the literal
    delimiter in effect (and thereby which escapes apply),
  - dedenting of squiggly heredocs,
  - an operator stack resolving `in` and `=>`, which are ambiguous between
    pattern matching, hashes and rescue clauses,
  - folding of unary signs into numeric literals,
  - comment collection for commentable constructs, which are wrapped into
    (comment "text" construct keyword) nodes,
  - translation of engine diagnostics into syntax errors.

A builder is good for one parse call.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package builder

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rparse.builder'.
func tracer() tracing.Trace {
	return tracing.Select("rparse.builder")
}
