package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mvz/ripper-parser-sub000/internal/corpora"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// Extensions of the files in a corpus directory.
const (
	dumpExt = "dump"
	sexpExt = "sexp"
	errExt  = "err"
)

func newCheckCmd(opts *options) *cobra.Command {
	var update bool
	cmd := &cobra.Command{
		Use:   "check [dir]...",
		Short: "Compare the ASTs of dumps against golden output",
		Long: `check rewrites every *.dump file below the given directories (default:
the current directory) and compares the result with the neighbouring
golden files: "x.dump.sexp" holds the expected AST, "x.dump.err" the
expected error. With --update the golden files are re-written instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			failed := 0
			for _, dir := range args {
				n, err := checkDir(cmd.OutOrStdout(), dir, opts.conf, update)
				if err != nil {
					return err
				}
				failed += n
			}
			if failed > 0 {
				return fmt.Errorf("%d cases failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&update, "update", false, "re-write golden files")
	return cmd
}

// checkDir checks one corpus directory and returns the number of failed
// cases.
func checkDir(out io.Writer, dir string, conf *Config, update bool) (int, error) {
	names, err := corpora.Inputs(dir, dumpExt)
	if err != nil {
		return 0, fmt.Errorf("cannot list %s: %w", dir, err)
	}
	jobs := make([]job, len(names))
	for i, name := range names {
		jobs[i] = job{path: filepath.Join(dir, filepath.FromSlash(name)), name: name}
	}
	failed := 0
	for i, r := range rewriteAll(jobs, conf) {
		got := expectations(r)
		path := jobs[i].path
		if update {
			for ext, content := range got {
				if err := corpora.WriteGolden(path+"."+ext, content); err != nil {
					return failed, err
				}
			}
			continue
		}
		var diffs []string
		for _, ext := range []string{sexpExt, errExt} {
			want, err := readGolden(path + "." + ext)
			if err != nil {
				return failed, err
			}
			if d := corpora.Diff(got[ext], want); d != "" {
				diffs = append(diffs, fmt.Sprintf("%s.%s:\n%s", r.file, ext, d))
			}
		}
		if len(diffs) == 0 {
			pterm.Success.Println(r.file)
			continue
		}
		failed++
		pterm.Error.Println(r.file)
		for _, d := range diffs {
			fmt.Fprintln(out, d)
		}
	}
	if update {
		pterm.Info.Printf("updated %d cases in %s\n", len(names), dir)
	}
	return failed, nil
}

// expectations returns the golden file contents for the outcome of a case,
// by extension.
func expectations(r outcome) map[string]string {
	got := map[string]string{sexpExt: "", errExt: ""}
	switch {
	case r.err != nil:
		got[errExt] = r.err.Error() + "\n"
	case r.ast != nil:
		got[sexpExt] = r.ast.ListString() + "\n"
	}
	return got
}

func readGolden(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	return string(data), err
}
