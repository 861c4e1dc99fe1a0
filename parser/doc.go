/*
Package parser drives the rewriting pipeline: a grammar engine reports
events to a fresh builder, the resulting raw tree is rewritten and line
numbers are propagated through the finished AST.

Usage:

	p := parser.New(parser.WithEngine(engine), parser.WithFilename("foo.rb"))
	ast, err := p.Parse(src)

Every call to Parse uses its own builder and rewriter, so a parser may be
used concurrently from several goroutines.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rparse.parser'.
func tracer() tracing.Trace {
	return tracing.Select("rparse.parser")
}
