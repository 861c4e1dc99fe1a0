package parser

import (
	"testing"

	"github.com/mvz/ripper-parser-sub000/internal/corpora"
	"github.com/mvz/ripper-parser-sub000/raw/dump"
	"github.com/mvz/ripper-parser-sub000/sexp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// Set RPARSE_REFRESH to a glob, e.g. '**/*', to re-generate expected output.
func TestCorpus(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.parser")
	defer teardown()
	//
	corpus := corpora.Corpus{
		Root:      "testdata",
		Refresh:   "RPARSE_REFRESH",
		Extension: "dump",
		Outputs: []corpora.Output{
			{Extension: "sexp"},
			{Extension: "err"},
		},
		Test: func(t *testing.T, path, text string) []string {
			ast, err := Parse(text, WithEngine(dump.Engine{}), WithFilename(path))
			if err != nil {
				return []string{"", err.Error() + "\n"}
			}
			if ast == nil {
				return []string{"", ""}
			}
			lines := ast.IndentedString()
			if again := sexp.PropagateLines(ast).IndentedString(); again != lines {
				t.Errorf("line propagation is not idempotent:\n%s", corpora.Diff(again, lines))
			}
			return []string{ast.ListString() + "\n", ""}
		},
	}
	corpus.Run(t)
}
