/*
Package dump reads a textual form of a grammar engine's event stream and
replays it through a raw.Handler.

The format is Lisp-like:

    (tag child …)        parser event; children are replayed first
    (@kind "text" L C)   scanner event producing a leaf token at line L, column C
    ~(@kind "text" L C)  scanner event for trivia; reported, but not part of the tree
    !("message" L C)     parse error diagnostic
    [a b c]              untagged list, as built by `…_new`/`…_add` events
    :sym  :"::"          bare symbol
    "text"               plain text argument
    42                   number argument
    nil  true  false     literals
    ; comment            up to end of line

Example, for Ruby source `a = 1`:

    (program [(assign (var_field (@ident "a" 1 0)) (@int "1" 1 4))])

Dumps are used by tests and the command line tool to drive the rewriting
pipeline without a Ruby front-end.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dump

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rparse.dump'.
func tracer() tracing.Trace {
	return tracing.Select("rparse.dump")
}
