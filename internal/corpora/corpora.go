// Package corpora runs golden-file tests. A corpus is a directory of input
// files, each accompanied by files holding the expected outputs.
//
// For an input file "if.dump" and an output extension "sexp" the expected
// output lives in "if.dump.sexp". A missing output file means the output is
// expected to be empty.
//
// Setting the corpus' refresh variable to a glob re-generates the expected
// outputs of all inputs matching the glob:
//
//	RPARSE_REFRESH='**/*' go test ./parser
//
// # License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
package corpora

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus describes a directory of test cases.
type Corpus struct {
	Root      string   // directory relative to the calling test file
	Refresh   string   // environment variable holding a refresh glob
	Extension string   // extension of input files, without a dot
	Outputs   []Output // outputs produced for each input

	// Test runs a single case and returns one string per output.
	Test func(t *testing.T, path, text string) []string
}

// Output is one kind of output of a test case.
type Output struct {
	Extension string  // appended to the input file name
	Compare   Compare // nil compares byte for byte
}

// Compare compares output with its expectation. It returns an empty
// string if they match, a description of the difference otherwise.
type Compare func(got, want string) string

// Run runs every case of the corpus as a sub-test of t.
func (c Corpus) Run(t *testing.T) {
	dir := callerDir(0)
	root := filepath.Join(dir, c.Root)
	cases, err := Inputs(root, c.Extension)
	if err != nil {
		t.Fatalf("corpora: cannot enumerate %q: %v", root, err)
	}
	if len(cases) == 0 {
		t.Fatalf("corpora: no *.%s files in %q", c.Extension, root)
	}
	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: invalid glob in %s: %q", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		t.Logf("corpora: refreshing outputs matching %s=%s", c.Refresh, refresh)
		t.Fail()
	}
	for _, name := range cases {
		name := name
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(root, name)
			input, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("corpora: cannot read %q: %v", path, err)
			}
			results := c.Test(t, name, string(input))
			if len(results) != len(c.Outputs) {
				t.Fatalf("corpora: test returned %d outputs, corpus declares %d", len(results), len(c.Outputs))
			}
			regenerate := refresh != "" && doublestar.MatchUnvalidated(refresh, filepath.ToSlash(name))
			for i, out := range c.Outputs {
				golden := path + "." + out.Extension
				if regenerate {
					if err := WriteGolden(golden, results[i]); err != nil {
						t.Errorf("corpora: %v", err)
					}
					continue
				}
				want, err := os.ReadFile(golden)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("corpora: cannot read %q: %v", golden, err)
					continue
				}
				cmp := out.Compare
				if cmp == nil {
					cmp = colored
				}
				if d := cmp(results[i], string(want)); d != "" {
					t.Errorf("output mismatch for %q:\n%s", golden, d)
				}
			}
		})
	}
}

// Inputs lists the files below root with the given extension, as slash
// separated paths relative to root, in lexical order.
func Inputs(root, ext string) ([]string, error) {
	names, err := doublestar.Glob(os.DirFS(root), "**/*."+ext, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Diff returns a unified diff of want and got, or an empty string if they
// are equal.
func Diff(got, want string) string {
	if got == want {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	if diff == "" {
		// differences in the final newline only
		return fmt.Sprintf("want %q\ngot  %q", want, got)
	}
	return diff
}

// colored is Diff with added and removed lines highlighted for terminals.
func colored(got, want string) string {
	diff := Diff(got, want)
	lines := strings.Split(diff, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+"):
			lines[i] = "\033[1;92m" + l + "\033[0m"
		case strings.HasPrefix(l, "-"):
			lines[i] = "\033[1;91m" + l + "\033[0m"
		}
	}
	return strings.Join(lines, "\n")
}

// WriteGolden writes expected output. Empty output removes the file.
func WriteGolden(path, content string) error {
	if content == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("cannot delete %q: %w", path, err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("cannot write %q: %w", path, err)
	}
	return nil
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: cannot determine directory of test file")
	}
	return filepath.Dir(file)
}
