// Command rparse rewrites grammar-engine dumps of Ruby programs into canonical
// ASTs.
//
//	rparse parse 'testdata/**/*.dump'     print the AST of each dump
//	rparse check parser/testdata           compare dumps against golden output
//	rparse repl                            enter dumps interactively
//
// Settings may be given in a YAML file (default ".rparse.yaml" in the current
// directory, if present):
//
//	filename: (string)
//	lineno: 1
//	numbered: true
//	format: list          # list | lines | tree | digest
//	jobs: 4
//	trace:
//	  rparse.rewrite: Debug
//
// # License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rparse.cli'
func tracer() tracing.Trace {
	return tracing.Select("rparse.cli")
}
