/*
Package ripperparser rewrites concrete Ruby parse trees into a canonical,
uniform abstract syntax tree.

A front-end grammar engine (Ruby's Ripper or any port of it) reports scanner
and parser events. These events are turned into a raw tree, which is then
rewritten, node by node, into the canonical AST shapes downstream tools
(linters, refactoring tools, static analyzers) expect. Package structure is
as follows:

■ sexp: Package sexp implements the canonical AST, a homogenous tree of
tagged nodes, together with printing, walking and line number propagation.

■ raw: Package raw implements the raw tree handed over by the grammar engine
and the engine contract. Sub-package dump reads and replays textual dumps of
an engine run.

■ unescape: Package unescape decodes backslash escapes of string, symbol
and regexp literals.

■ comments: Package comments collects comments preceding commentable
constructs.

■ builder: Package builder is the preprocessor sitting directly on top of
the grammar engine's callbacks.

■ rewrite: Package rewrite dispatches raw nodes to handlers producing
canonical nodes.

■ parser: Package parser drives the pipeline.

Command rparse (in cmd/rparse) rewrites dump files from the command line,
checks them against golden output and offers a REPL.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ripperparser
